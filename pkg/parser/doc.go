// Package parser runs external validators against raw route values.
//
// A validator is any value exposing one of four capabilities, checked in
// this order:
//
//	func(any) (any, error)              // Func, or a plain function
//	Parse(any) (any, error)             // Parser
//	ValidateSync(any) (any, error)      // SyncValidator
//	Decode(any) Decoded                 // Decoder
//
// Run picks the first capability the value exposes. Failures are always
// reported as *ValidationError so callers can inspect the field and the
// underlying cause with errors.As.
//
// # Records
//
// Path parameters and query strings are carried as a Record, an ordered
// list of key/value pairs. Fields validates a Record key by key:
//
//	fields := parser.Fields{"page": validators.Int}
//	out, err := fields.Validate(parser.Pairs("page", "2", "debug", "1"))
//	// out == [page=2]; "debug" has no validator and is dropped
package parser
