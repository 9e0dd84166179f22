package db

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/raghupathi321/Janagraha-sub000/app/model"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	DB    *gorm.DB
	Mongo *mongo.Database
)

func ConnectDB() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	connectPostgres()
	connectMongo()
}

func connectPostgres() {
	dsn := os.Getenv("DB_DSN")

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}

	if err := DB.AutoMigrate(&model.User{}, &model.BlacklistedToken{}); err != nil {
		log.Fatal("Failed to migrate PostgreSQL schema:", err)
	}

	log.Println("Connected to PostgreSQL successfully")
}

func connectMongo() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoURI := os.Getenv("MONGO_URI")
	clientOptions := options.Client().ApplyURI(mongoURI)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}

	err = client.Ping(ctx, nil)
	if err != nil {
		log.Fatal("Failed to ping MongoDB:", err)
	}

	dbName := os.Getenv("MONGO_DB_NAME")
	Mongo = client.Database(dbName)

	if err := EnsureIndexes(ctx, Mongo); err != nil {
		log.Fatal("Failed to create MongoDB indexes:", err)
	}

	log.Println("Connected to MongoDB successfully")
}

// EnsureIndexes creates the uniqueness constraints the application relies
// on: one project per user, and one evaluation per (project, judge) pair.
// The latter closes the race between concurrent evaluation inserts from the
// same judge; an in-memory check would not survive replication.
func EnsureIndexes(ctx context.Context, mdb *mongo.Database) error {
	_, err := mdb.Collection("projects").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = mdb.Collection("evaluations").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "projectId", Value: 1}, {Key: "judgeId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func GetDB() *gorm.DB {
	return DB
}

func GetMongo() *mongo.Database {
	return Mongo
}
