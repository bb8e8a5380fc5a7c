// Package codec reads and writes index records as tagged YAML.
//
// Each record type maps to a local tag and a block mapping whose keys follow
// the field declaration order:
//
//	!index
//	components:
//	  - &ABC !index-component
//	    symbol: ABC
//	    name: A b c.
//	diffs:
//	  - !index-diff
//	    date: June 8, 2022
//	    added: *ABC
//	    removed: null
//	    reason: Market capitalization change.
//
// A component instance reachable more than once within one Encode call is
// written in full the first time, anchored with its symbol, and aliased
// afterwards. Aliasing follows pointer identity only; equal but distinct
// components are written twice. Decoding reverses this: every alias of an
// anchor yields the same *index.Component.
//
// The decoder is strict. Unknown tags, non-mapping records, and missing,
// duplicate or unexpected fields are rejected with a *LoadError.
package codec
