package cache

// ScopedKeyer wraps a Keyer with a prefix so separate deployments or data
// sets sharing one backend (typically redis) get isolated namespaces.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// ModelKey generates a prefixed key for processed-model caching.
func (k *ScopedKeyer) ModelKey(sourceHash string, opts ModelKeyOpts) string {
	return k.prefix + k.inner.ModelKey(sourceHash, opts)
}

// KinshipKey generates a prefixed key for kinship-matrix caching.
func (k *ScopedKeyer) KinshipKey(modelHash string) string {
	return k.prefix + k.inner.KinshipKey(modelHash)
}

// ArtifactKey generates a prefixed key for rendered-artifact caching.
func (k *ScopedKeyer) ArtifactKey(modelHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(modelHash, opts)
}
