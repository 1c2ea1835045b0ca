package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/arangodb/go-driver/v2/arangodb"
)

// Store level sentinel errors. Services wrap these with context.
var (
	ErrNotFound    = errors.New("document not found")
	ErrNotModified = errors.New("document not modified")
)

// Filter matches documents on top-level field equality
type Filter map[string]interface{}

// SortField orders FindMany results
type SortField struct {
	Field string
	Desc  bool
}

// Store is the document-store contract the services are written against.
// Aggregates are read and replaced as whole documents; there are no partial
// updates. The Arango implementation is the production one, MemStore backs
// the tests.
type Store interface {
	FindOne(ctx context.Context, collection string, filter Filter, projection []string, out interface{}) error
	FindMany(ctx context.Context, collection string, filter Filter, projection []string, sort []SortField, out interface{}) error
	InsertOne(ctx context.Context, collection string, doc interface{}) error
	ReplaceOne(ctx context.Context, collection string, filter Filter, doc interface{}, out interface{}) error
	DeleteOne(ctx context.Context, collection string, filter Filter) error
}

// ArangoStore implements Store on top of a DBConnection
type ArangoStore struct {
	conn DBConnection
}

// NewArangoStore wraps an initialized database connection
func NewArangoStore(conn DBConnection) *ArangoStore {
	return &ArangoStore{conn: conn}
}

// filterClause renders the filter as bind-var equality terms. Field names go
// through bind vars too (d[@f0] == @v0) so no value ever touches the query
// string.
func filterClause(filter Filter, bindVars map[string]interface{}) string {
	clause := ""
	i := 0
	for field, value := range filter {
		fieldVar := fmt.Sprintf("f%d", i)
		valueVar := fmt.Sprintf("v%d", i)
		clause += fmt.Sprintf(" FILTER d[@%s] == @%s", fieldVar, valueVar)
		bindVars[fieldVar] = field
		bindVars[valueVar] = value
		i++
	}
	return clause
}

// returnExpr keeps only the projected top-level fields when a projection is
// given
func returnExpr(projection []string, bindVars map[string]interface{}) string {
	if len(projection) == 0 {
		return "d"
	}
	bindVars["keep"] = projection
	return "KEEP(d, @keep)"
}

func sortClause(sort []SortField) string {
	if len(sort) == 0 {
		return " SORT d._key ASC"
	}
	clause := " SORT"
	for i, s := range sort {
		direction := "ASC"
		if s.Desc {
			direction = "DESC"
		}
		if i > 0 {
			clause += ","
		}
		clause += fmt.Sprintf(" d.%s %s", s.Field, direction)
	}
	return clause
}

// FindOne reads the first document matching the filter
func (s *ArangoStore) FindOne(ctx context.Context, collection string, filter Filter, projection []string, out interface{}) error {
	bindVars := map[string]interface{}{"@col": collection}
	query := "FOR d IN @@col" + filterClause(filter, bindVars) + " LIMIT 1 RETURN " + returnExpr(projection, bindVars)

	cursor, err := s.conn.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return err
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return ErrNotFound
	}
	if _, err := cursor.ReadDocument(ctx, out); err != nil {
		return err
	}
	return nil
}

// FindMany reads every matching document into out, which must be a pointer
// to a slice
func (s *ArangoStore) FindMany(ctx context.Context, collection string, filter Filter, projection []string, sort []SortField, out interface{}) error {
	bindVars := map[string]interface{}{"@col": collection}
	query := "FOR d IN @@col" + filterClause(filter, bindVars) + sortClause(sort) + " RETURN " + returnExpr(projection, bindVars)

	cursor, err := s.conn.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return err
	}
	defer cursor.Close()

	docs := []json.RawMessage{}
	for cursor.HasMore() {
		var raw json.RawMessage
		if _, err := cursor.ReadDocument(ctx, &raw); err != nil {
			return err
		}
		docs = append(docs, raw)
	}

	// Round-trip through a JSON array so out keeps its natural slice type
	buf, err := json.Marshal(docs)
	if err != nil {
		return err
	}
	return json.Unmarshal(buf, out)
}

// InsertOne stores a fresh document. The document supplies its own _key.
func (s *ArangoStore) InsertOne(ctx context.Context, collection string, doc interface{}) error {
	col, ok := s.conn.Collections[collection]
	if !ok {
		return fmt.Errorf("unknown collection %q", collection)
	}
	_, err := col.CreateDocument(ctx, doc)
	return err
}

// ReplaceOne swaps the first matching document for doc and decodes the new
// revision into out when out is non-nil. No match reports ErrNotModified.
func (s *ArangoStore) ReplaceOne(ctx context.Context, collection string, filter Filter, doc interface{}, out interface{}) error {
	bindVars := map[string]interface{}{"@col": collection, "doc": doc}
	query := "FOR d IN @@col" + filterClause(filter, bindVars) + " LIMIT 1 REPLACE d WITH @doc IN @@col RETURN NEW"

	cursor, err := s.conn.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return err
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return ErrNotModified
	}
	if out == nil {
		out = &json.RawMessage{}
	}
	if _, err := cursor.ReadDocument(ctx, out); err != nil {
		return err
	}
	return nil
}

// DeleteOne removes the first matching document
func (s *ArangoStore) DeleteOne(ctx context.Context, collection string, filter Filter) error {
	bindVars := map[string]interface{}{"@col": collection}
	query := "FOR d IN @@col" + filterClause(filter, bindVars) + " LIMIT 1 REMOVE d IN @@col RETURN OLD._key"

	cursor, err := s.conn.Database.Query(ctx, query, &arangodb.QueryOptions{BindVars: bindVars})
	if err != nil {
		return err
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return ErrNotFound
	}
	var key string
	if _, err := cursor.ReadDocument(ctx, &key); err != nil {
		return err
	}
	return nil
}
