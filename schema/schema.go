package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/lambda-feedback/gatewayproxy/adapter"
)

var (
	ErrSchemaNotFound = errors.New("schema not found")
	ErrUnknownEvent   = errors.New("event matches no known payload format")
)

// ValidationError lists the violations of an event against a schema.
type ValidationError struct {
	Source adapter.Source
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s event: %s", e.Source, strings.Join(e.Errors, "; "))
}

// detectionOrder is the order in which payload formats are tried. The
// v2 and load balancer schemas are the most specific.
var detectionOrder = []adapter.Source{
	adapter.SourceAPIGatewayV2,
	adapter.SourceALB,
	adapter.SourceAPIGatewayV1,
}

type Schema struct {
	schemas map[adapter.Source]*gojsonschema.Schema
}

//go:embed apigw-v1.json
var apiGatewayV1Event []byte

//go:embed apigw-v2.json
var apiGatewayV2Event []byte

//go:embed alb.json
var albEvent []byte

// New compiles the event schemas of all payload formats.
func New() (*Schema, error) {
	sources := map[adapter.Source][]byte{
		adapter.SourceAPIGatewayV1: apiGatewayV1Event,
		adapter.SourceAPIGatewayV2: apiGatewayV2Event,
		adapter.SourceALB:          albEvent,
	}

	schemas := make(map[adapter.Source]*gojsonschema.Schema, len(sources))

	for source, data := range sources {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s schema: %w", source, err)
		}
		schemas[source] = schema
	}

	return &Schema{schemas: schemas}, nil
}

func (s *Schema) Get(source adapter.Source) (*gojsonschema.Schema, error) {
	schema, ok := s.schemas[source]
	if !ok {
		return nil, ErrSchemaNotFound
	}

	return schema, nil
}

// Validate validates a JSON encoded event against the schema of source.
// Violations are reported as *ValidationError.
func (s *Schema) Validate(source adapter.Source, event []byte) error {
	schema, err := s.Get(source)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(event))
	if err != nil {
		return err
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{Source: source}
	for _, desc := range result.Errors() {
		validationErr.Errors = append(validationErr.Errors, desc.String())
	}

	return validationErr
}

// Detect returns the payload format of a JSON encoded event.
func (s *Schema) Detect(event []byte) (adapter.Source, error) {
	for _, source := range detectionOrder {
		err := s.Validate(source, event)
		if err == nil {
			return source, nil
		}

		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			return "", err
		}
	}

	return "", ErrUnknownEvent
}
