package observe

import "github.com/vango-dev/routekit/pkg/routes"

// Multi fans out to every observer in order. Nil entries are skipped.
func Multi(observers ...routes.Observer) routes.Observer {
	out := make(multi, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

type multi []routes.Observer

func (m multi) Rendered(pattern string) {
	for _, o := range m {
		o.Rendered(pattern)
	}
}

func (m multi) Failed(op string, err error) {
	for _, o := range m {
		o.Failed(op, err)
	}
}
