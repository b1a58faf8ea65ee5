package storage

import "context"

type prefixed struct {
	next   Store
	prefix string
}

// WithPrefix namespaces every key of s under prefix.  Each browsing session
// gets its own prefix so the fixed key names never clash.
func WithPrefix(s Store, prefix string) Store {
	return &prefixed{next: s, prefix: prefix}
}

func (p *prefixed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return p.next.Get(ctx, p.prefix+key)
}

func (p *prefixed) Set(ctx context.Context, key string, value []byte) error {
	return p.next.Set(ctx, p.prefix+key, value)
}

func (p *prefixed) Delete(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = p.prefix + k
	}
	return p.next.Delete(ctx, full...)
}
