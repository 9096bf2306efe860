package parsers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/footprint-tools/dispatch"
)

type uuidParser[C any] struct{}

// UUID parses one token as an RFC 4122 UUID.
func UUID[C any]() dispatch.ArgumentParser[C, uuid.UUID] {
	return uuidParser[C]{}
}

// Parse implements dispatch.ArgumentParser.
func (uuidParser[C]) Parse(_ context.Context, _ *dispatch.CommandContext[C], in *dispatch.Input) (uuid.UUID, error) {
	tok, ok := in.Read()
	if !ok {
		return uuid.Nil, errors.New("expected a UUID")
	}
	id, err := uuid.Parse(tok)
	if err != nil {
		return uuid.Nil, fmt.Errorf("'%s' is not a UUID", tok)
	}
	return id, nil
}

// Contract implements the ambiguity identity.
func (uuidParser[C]) Contract() string { return "uuid" }
