package testutil

import (
	"os"
	"testing"
)

type TestEnv struct {
	MongoURI     string
	DatabaseName string
}

func NewTestEnv() *TestEnv {
	return &TestEnv{
		MongoURI:     getEnv("TEST_MONGO_URI", DefaultMongoURI),
		DatabaseName: getEnv("TEST_DB_NAME", DefaultDatabaseName),
	}
}

// Setup connects to the test database and drops anything a previous run
// left behind. The test is skipped when Mongo is unreachable.
func (e *TestEnv) Setup(t *testing.T) *MongoHelper {
	t.Helper()

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanDatabase(t)
	t.Cleanup(func() { e.Cleanup(t, mongo) })

	return mongo
}

func (e *TestEnv) Cleanup(t *testing.T, mongo *MongoHelper) {
	t.Helper()

	if mongo != nil {
		mongo.CleanDatabase(t)
		mongo.Close(t)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
