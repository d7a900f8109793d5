package test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

const (
	LOCAL_DDB_PORT = 8000
	TABLE_NAME     = "RecipeData"
	INDEX_NAME     = "GS1"
)

func stringAttribute(name string) types.AttributeDefinition {
	return types.AttributeDefinition{
		AttributeName: aws.String(name),
		AttributeType: types.ScalarAttributeTypeS,
	}
}

// CreateTable mirrors the deployed table: PK/SK plus the GS1 index keyed on
// GS1-PK and sorted by SK.
func CreateTable(client *dynamodb.Client) (string, error) {
	keySchema := []types.KeySchemaElement{
		{
			AttributeName: aws.String("PK"),
			KeyType:       types.KeyTypeHash,
		},
		{
			AttributeName: aws.String("SK"),
			KeyType:       types.KeyTypeRange,
		},
	}
	output, err := client.CreateTable(context.TODO(), &dynamodb.CreateTableInput{
		TableName:   aws.String(TABLE_NAME),
		KeySchema:   keySchema,
		BillingMode: types.BillingModePayPerRequest,
		AttributeDefinitions: []types.AttributeDefinition{
			stringAttribute("PK"),
			stringAttribute("SK"),
			stringAttribute("GS1-PK"),
		},
		GlobalSecondaryIndexes: []types.GlobalSecondaryIndex{
			{
				IndexName: aws.String(INDEX_NAME),
				KeySchema: []types.KeySchemaElement{
					{
						AttributeName: aws.String("GS1-PK"),
						KeyType:       types.KeyTypeHash,
					},
					{
						AttributeName: aws.String("SK"),
						KeyType:       types.KeyTypeRange,
					},
				},
				Projection: &types.Projection{
					ProjectionType: types.ProjectionTypeAll,
				},
			},
		},
	})
	if err != nil {
		return "", err
	}
	waiter := dynamodb.NewTableExistsWaiter(client, func(tewo *dynamodb.TableExistsWaiterOptions) {
		tewo.LogWaitAttempts = true
	})
	_, err = waiter.WaitForOutput(context.TODO(), &dynamodb.DescribeTableInput{
		TableName: output.TableDescription.TableName,
	}, time.Second*5)
	return *output.TableDescription.TableName, err
}

func (l *LocalDynamoServer) CreateLocalClient() (*dynamodb.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRetryMaxAttempts(10),
		config.WithRegion("us-east-1"),
		config.WithEndpointResolverWithOptions(aws.EndpointResolverWithOptionsFunc(
			func(service, region string, options ...interface{}) (aws.Endpoint, error) {
				return aws.Endpoint{URL: fmt.Sprintf("http://localhost:%d", l.Port)}, nil
			})),
		config.WithCredentialsProvider(credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID:     "fake",
				SecretAccessKey: "fake",
				SessionToken:    "fake",
			}}),
	)
	if err != nil {
		return nil, err
	}
	return dynamodb.NewFromConfig(cfg), nil
}

type LocalDynamoServer struct {
	Process *os.Process
	Port    int
}

// localJarDir finds the DynamoDB Local distribution, either from
// DYNAMODB_LOCAL_DIR or the dynamodb directory at the module root.
func localJarDir() (string, bool) {
	if dir := os.Getenv("DYNAMODB_LOCAL_DIR"); dir != "" {
		_, err := os.Stat(filepath.Join(dir, "DynamoDBLocal.jar"))
		return dir, err == nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for dir := wd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, "dynamodb")
		if _, err := os.Stat(filepath.Join(candidate, "DynamoDBLocal.jar")); err == nil {
			return candidate, true
		}
	}
	return "", false
}

// StartLocalServer runs DynamoDB Local for the duration of the test. The test
// is skipped when java or the jar is not available.
func StartLocalServer(port int, t *testing.T) *LocalDynamoServer {
	t.Helper()
	dir, ok := localJarDir()
	if !ok {
		t.Skip("DynamoDB Local is not installed, skipping integration test")
	}
	if _, err := exec.LookPath("java"); err != nil {
		t.Skip("java is not on the PATH, skipping integration test")
	}
	cmd := exec.Command(
		"java", fmt.Sprintf("-Djava.library.path=%s/DynamoDBLocal_lib", dir),
		"-jar", filepath.Join(dir, "DynamoDBLocal.jar"),
		"-port", strconv.Itoa(port),
		"-inMemory",
	)
	if err := cmd.Start(); err != nil {
		t.Fatalf("Failed to start local DDB server: %s", err)
	}
	t.Cleanup(func() {
		if err := cmd.Process.Kill(); err != nil {
			t.Errorf("Failed to terminate local DDB server: %s", err)
		}
	})
	return &LocalDynamoServer{Port: port, Process: cmd.Process}
}

// NewLocalTable starts DynamoDB Local and creates the table in one step.
func NewLocalTable(port int, t *testing.T) (*dynamodb.Client, string) {
	t.Helper()
	server := StartLocalServer(port, t)
	client, err := server.CreateLocalClient()
	if err != nil {
		t.Fatalf("Failed to create DDB client: %s", err)
	}
	tableName, err := CreateTable(client)
	if err != nil {
		t.Fatalf("Failed to create DDB table: %s", err)
	}
	t.Logf("Successfully created local resources running on %d", port)
	return client, tableName
}
