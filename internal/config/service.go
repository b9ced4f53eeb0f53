package config

type ServiceConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
	// BaseURL is the public origin of this web surface, e.g.
	// https://account.onsiteclub.ca. Email confirmation links and Stripe
	// return URLs are built from it.
	BaseURL  string         `yaml:"base_url"`
	Supabase SupabaseConfig `yaml:"supabase"`
	Stripe   StripeConfig   `yaml:"stripe"`
}

type SupabaseConfig struct {
	JWTSecret  string `yaml:"jwt_secret"`
	ProjectURL string `yaml:"project_url"`
	APIKey     string `yaml:"api_key"`
}

type StripeConfig struct {
	SecretKey string `yaml:"secret_key"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	Output      string `yaml:"output"`
	FilePath    string `yaml:"file_path"`
	Development bool   `yaml:"development"`
}
