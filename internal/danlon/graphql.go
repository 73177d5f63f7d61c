package danlon

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"backend/internal/errors"
)

// GraphQLError is one entry of a GraphQL response's errors[] array.
type GraphQLError struct {
	Message string `json:"message"`
}

type graphQLRequest struct {
	Query     string      `json:"query"`
	Variables interface{} `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors"`
}

// GraphQLClient executes authenticated queries and mutations against the
// Danløn GraphQL endpoint, distinguishing transport failures from
// GraphQL-level errors[] in an otherwise-200 response.
type GraphQLClient struct {
	endpoint string
	client   *http.Client
	log      *logrus.Logger
}

// NewGraphQLClient creates a GraphQLClient bound to the configured
// endpoint.
func NewGraphQLClient(config Config, log *logrus.Logger) *GraphQLClient {
	return &GraphQLClient{
		endpoint: config.GraphQLURL,
		client:   &http.Client{Timeout: httpTimeout},
		log:      log,
	}
}

// Query executes query/variables with accessToken as a bearer token and
// unmarshals the "data" field into out.
func (g *GraphQLClient) Query(ctx context.Context, accessToken, query string, variables interface{}, out interface{}) error {
	payload, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrUpstreamHTTPError)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, errors.ErrUpstreamHTTPError)
	}

	if resp.StatusCode != http.StatusOK {
		g.log.WithField("status", resp.StatusCode).Error("danlon graphql transport error")
		return errors.ErrUpstreamHTTPError.WithMessage(string(body))
	}

	var parsed graphQLResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return errors.Wrap(err, errors.ErrUpstreamHTTPError)
	}

	if len(parsed.Errors) > 0 {
		messages := make([]string, len(parsed.Errors))
		for i, e := range parsed.Errors {
			messages[i] = e.Message
		}
		g.log.WithField("errors", messages).Error("danlon graphql returned errors")
		return errors.ErrUpstreamGraphQLError.WithMessage(strings.Join(messages, "; "))
	}

	if out == nil || len(parsed.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(parsed.Data, out); err != nil {
		return errors.Wrap(err, errors.ErrUpstreamHTTPError)
	}
	return nil
}
