package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type EnvConfig struct {
	AppPort   string
	DBDSN     string
	MongoURI  string
	MongoDB   string
	JWTSecret string
	UploadDir string
}

var Env EnvConfig

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	Env.AppPort = os.Getenv("APP_PORT")
	Env.DBDSN = os.Getenv("DB_DSN")
	Env.MongoURI = os.Getenv("MONGO_URI")
	Env.MongoDB = os.Getenv("MONGO_DB_NAME")
	Env.JWTSecret = os.Getenv("JWT_SECRET")
	Env.UploadDir = os.Getenv("UPLOAD_DIR")
	if Env.UploadDir == "" {
		Env.UploadDir = "./uploads"
	}
}

func GetJWTSecret() string {
	if Env.JWTSecret == "" {
		Env.JWTSecret = os.Getenv("JWT_SECRET")
	}
	return Env.JWTSecret
}

func GetUploadDir() string {
	if Env.UploadDir == "" {
		return "./uploads"
	}
	return Env.UploadDir
}
