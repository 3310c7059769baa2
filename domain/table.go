package domain

// Table is a mongo collection name.
type Table string

const (
	TableDeployments Table = "deployments"
)
