package config

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	RedisAddr   string `env:"REDIS_ADDR" default:"localhost:6379"`
	RedisPass   string `env:"REDIS_PASSWORD"`
	JWTSecret   string `env:"JWT_SECRET,required"`

	PayPalClientID string `env:"PAYPAL_CLIENT_ID"`
	PayPalSecret   string `env:"PAYPAL_CLIENT_SECRET"`
	PayPalMode     string `env:"PAYPAL_MODE" default:"sandbox"`

	CheckoutReturnURL string `env:"CHECKOUT_RETURN_URL"`
	CheckoutCancelURL string `env:"CHECKOUT_CANCEL_URL"`

	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	SMTPHost string `env:"SMTP_HOST"`
	SMTPPort string `env:"SMTP_PORT" default:"465"`
	SMTPUser string `env:"SMTP_USER"`
	SMTPPass string `env:"SMTP_PASSWORD"`

	Env string `env:"APP_ENV" default:"dev"`
}
