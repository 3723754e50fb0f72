package integration_test

import (
	"context"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	DYNAMODB_LOCAL_IMAGE = "amazon/dynamodb-local:2.5.2"
	DYNAMODB_LOCAL_PORT  = "8000/tcp"
)

// startDynamoDBLocal runs an in-memory DynamoDB Local and returns its
// endpoint.
func startDynamoDBLocal(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        DYNAMODB_LOCAL_IMAGE,
			ExposedPorts: []string{DYNAMODB_LOCAL_PORT},
			Cmd:          []string{"-jar", "DynamoDBLocal.jar", "-inMemory", "-sharedDb"},
			WaitingFor:   wait.ForListeningPort(DYNAMODB_LOCAL_PORT),
		},
		Started: true,
	})
	if err != nil {
		return nil, "", err
	}

	endpoint, err := container.PortEndpoint(ctx, DYNAMODB_LOCAL_PORT, "http")
	if err != nil {
		container.Terminate(ctx)
		return nil, "", err
	}

	return container, endpoint, nil
}
