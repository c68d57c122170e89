// Package config loads route tables from routes files.
//
// A routes file is YAML (routes.yaml, routes.yml) or JSON (routes.json),
// chosen by extension:
//
//	trailingSlash: false
//	conflicts: strict        # or: override
//	routes:
//	  - path: /
//	  - path: /users/:id
//	    name: user
//	    params:
//	      id: int
//	    query:
//	      tab: oneof:posts|likes
//	    meta:
//	      method: GET
//
// Validator specs are resolved with validators.Lookup. Errors are coded
// (see internal/errors) and point at the offending route entry when the
// file is YAML.
//
// # Usage
//
//	cfg, err := config.Load("routes.yaml")
//	if err != nil {
//	    return err
//	}
//	table, err := cfg.Build(routes.WithLogger(logger))
package config
