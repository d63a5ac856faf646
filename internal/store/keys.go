package store

// Logical keys of the persisted documents.
const (
	KeyUsers          = "all-users-registry"
	KeyActiveIdentity = "active-identity"
	KeyImageURL       = "image-url"
	KeyReveals        = "global-reveal-ledger"
	KeyOverlayOpacity = "overlay-opacity"
)
