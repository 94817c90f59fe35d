package config

import "os"

type Config struct {
	Port                    string
	Env                     string
	FirebaseCredentialsPath string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	JWTSecret               string
	CloudinaryURL           string
	EmailHost               string
	EmailPort               string
	EmailUser               string
	EmailPass               string
	EmailFrom               string
}

func Load() *Config {
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "artconnect"),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		CloudinaryURL:           getEnv("CLOUDINARY_URL", ""),
		EmailHost:               getEnv("EMAIL_HOST", "smtp.gmail.com"),
		EmailPort:               getEnv("EMAIL_PORT", "587"),
		EmailUser:               getEnv("EMAIL_USER", ""),
		EmailPass:               getEnv("EMAIL_PASS", ""),
		EmailFrom:               getEnv("EMAIL_FROM", "ArtConnect"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
