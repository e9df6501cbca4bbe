// Package catalog defines the uniform shape of discoverable videos and the
// Lister capability each chamber source implements. Subpackages house and
// senate hold the concrete adapters; this package owns the shared item
// model and the date/committee normalization rules both adapters share.
package catalog
