package environments

type Environment string

const (
	Production  Environment = "production"
	Development Environment = "development"
	Staging     Environment = "staging"
	Test        Environment = "test"
)

// IsProduction also accepts the short "prod" alias used by older deployments.
func (e Environment) IsProduction() bool {
	return e == Production || e == "prod"
}
