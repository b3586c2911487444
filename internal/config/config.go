package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	DatabaseURL         string
	RedisURL            string
	JWTSecret           string
	SendgridAPIKey      string
	MailFrom            string
	TwilioAccountSID    string
	TwilioAuthToken     string
	TwilioMessagingSID  string
	StorageURL          string
	StorageSecretKey    string
	StorageBucket       string
	PresignedExpirySecs int
	FrontendURLEndsWith string
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	expiry := viper.GetInt("PRESIGNED_EXPIRY_SECS")
	if expiry <= 0 {
		expiry = 3600
	}

	mailFrom := viper.GetString("MAIL_FROM")
	if mailFrom == "" {
		mailFrom = "noreply@unithrift.app"
	}

	return &Config{
		Env:                 env,
		Port:                port,
		DatabaseURL:         viper.GetString("DATABASE_URL"),
		RedisURL:            viper.GetString("REDIS_URL"),
		JWTSecret:           viper.GetString("JWT_SECRET"),
		SendgridAPIKey:      viper.GetString("SENDGRID_API_KEY"),
		MailFrom:            mailFrom,
		TwilioAccountSID:    viper.GetString("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:     viper.GetString("TWILIO_AUTH_TOKEN"),
		TwilioMessagingSID:  viper.GetString("TWILIO_MESSAGING_SERVICE_SID"),
		StorageURL:          viper.GetString("STORAGE_URL"),
		StorageSecretKey:    viper.GetString("STORAGE_SECRET_KEY"),
		StorageBucket:       viper.GetString("STORAGE_BUCKET"),
		PresignedExpirySecs: expiry,
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
	}, nil
}
