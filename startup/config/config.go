package config

import "os"

type Config struct {
	Port                 string
	ScubaDBHost          string
	ScubaDBPort          string
	BookingDBHost        string
	RecommendationDBHost string
	RecommendationDBPort string
	RecommendationDBUser string
	RecommendationDBPass string
	ImageCacheHost       string
	ImageCachePort       string
	HDFSUri              string
	JaegerAddress        string
	SMTPEmail            string
	SMTPPassword         string
	SecretKey            string
}

func NewConfig() *Config {
	return &Config{
		Port:                 os.Getenv("SCUBA_SERVICE_PORT"),
		ScubaDBHost:          os.Getenv("SCUBA_DB_HOST"),
		ScubaDBPort:          os.Getenv("SCUBA_DB_PORT"),
		BookingDBHost:        os.Getenv("BOOKING_DB_HOST"),
		RecommendationDBHost: os.Getenv("RECOMMENDATION_DB_HOST"),
		RecommendationDBPort: os.Getenv("RECOMMENDATION_DB_PORT"),
		RecommendationDBUser: os.Getenv("RECOMMENDATION_DB_USER"),
		RecommendationDBPass: os.Getenv("RECOMMENDATION_DB_PASS"),
		ImageCacheHost:       os.Getenv("IMAGE_CACHE_HOST"),
		ImageCachePort:       os.Getenv("IMAGE_CACHE_PORT"),
		HDFSUri:              os.Getenv("HDFS_URI"),
		JaegerAddress:        os.Getenv("JAEGER_ADDRESS"),
		SMTPEmail:            os.Getenv("SMTP_AUTH_MAIL"),
		SMTPPassword:         os.Getenv("SMTP_AUTH_PASSWORD"),
		SecretKey:            os.Getenv("SECRET_KEY"),
	}
}
