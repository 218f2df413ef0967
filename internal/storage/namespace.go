package storage

// Namespaced scopes every key of s below ns. An empty ns returns s unchanged,
// keeping the global per-device keys.
func Namespaced(s Store, ns string) Store {
	if ns == "" {
		return s
	}
	return &namespaced{inner: s, prefix: ns + "/"}
}

type namespaced struct {
	inner  Store
	prefix string
}

func (n *namespaced) Get(key string) ([]byte, error) {
	return n.inner.Get(n.prefix + key)
}

func (n *namespaced) Put(key string, value []byte) error {
	return n.inner.Put(n.prefix+key, value)
}

func (n *namespaced) Close() error {
	return n.inner.Close()
}
