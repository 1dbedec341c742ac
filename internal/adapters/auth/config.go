package auth

const (
	TypeClientCredentials = "client_credentials"
	TypeStaticToken       = "static_token"

	DefaultAuthorityHost = "https://login.microsoftonline.com"
)

type Config struct {
	Type          string `mapstructure:"type" validate:"required,oneof=client_credentials static_token"`
	TenantID      string `mapstructure:"tenant_id" validate:"required_if=Type client_credentials"`
	ClientID      string `mapstructure:"client_id" validate:"required_if=Type client_credentials"`
	ClientSecret  string `mapstructure:"client_secret" validate:"required_if=Type client_credentials"`
	AuthorityHost string `mapstructure:"authority_host" validate:"omitempty,url"`
	Token         string `mapstructure:"token" validate:"required_if=Type static_token"`
}

func DefaultConfig() *Config {
	return &Config{
		Type:          TypeClientCredentials,
		AuthorityHost: DefaultAuthorityHost,
	}
}
