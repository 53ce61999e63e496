package domain

// Collection names of the risk-management catalog. Catalog entities are
// free-form documents carrying a logical "id" field; no cross-entity
// referential checks are enforced on relations.
const (
	CollectionUsers           = "users"
	CollectionAssets          = "assets"
	CollectionThreats         = "threats"
	CollectionVulnerabilities = "vulnerabilities"
	CollectionSafeguards      = "safeguards"
	CollectionRelations       = "relations"
)

// CatalogCollections lists the collections exposed through the generic admin
// CRUD surface. Users are handled separately behind the role gate.
var CatalogCollections = []string{
	CollectionAssets,
	CollectionThreats,
	CollectionVulnerabilities,
	CollectionSafeguards,
	CollectionRelations,
}
