package codec

import (
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/wikisnp/internal/domain/index"
)

// MarshalJSON renders idx as indented JSON. Shared components are written
// out in full at every occurrence.
func MarshalJSON(idx *index.Index) ([]byte, error) {
	if idx == nil {
		return nil, fmt.Errorf("%w: nil index", ErrUnsupportedType)
	}

	data, err := sonic.ConfigStd.MarshalIndent(idx, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding json: %w", err)
	}
	return data, nil
}
