package domain

// Repository is an image repository with its tags, in registry order.
type Repository struct {
	Name string
	Tags []string
}

// RepositoryList is the repository listing of one registry.
type RepositoryList struct {
	Registry     string
	Repositories []string
}

// TagList is the tag listing of one repository.
type TagList struct {
	Registry   string
	Repository string
	Tags       []string
}

// Catalog is every repository of a registry with its tags.
type Catalog struct {
	Registry     string
	Repositories []Repository
}
