package cache

// ModelKeyOpts captures the ingestion options that change the resulting
// model for identical source bytes.
type ModelKeyOpts struct {
	Indexed bool   `json:"indexed"`
	Layout  string `json:"layout"` // canonical layout description
}

// ArtifactKeyOpts captures the render options that change an artifact for
// an identical model.
type ArtifactKeyOpts struct {
	Format   string `json:"format"` // "svg", "png", "dot"
	Pedigree int    `json:"pedigree"`
	Detailed bool   `json:"detailed"`
}

// DefaultKeyer generates hierarchical cache keys with stage prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ModelKey generates a key for processed-model caching.
func (k *DefaultKeyer) ModelKey(sourceHash string, opts ModelKeyOpts) string {
	return hashKey("model", sourceHash, opts)
}

// KinshipKey generates a key for kinship-matrix caching.
func (k *DefaultKeyer) KinshipKey(modelHash string) string {
	return hashKey("kinship", modelHash)
}

// ArtifactKey generates a key for rendered-artifact caching.
func (k *DefaultKeyer) ArtifactKey(modelHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", modelHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
