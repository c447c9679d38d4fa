package services

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"kindred_server/models"
)

// fakeStore is an in-memory DataStore for service tests. It understands the
// key schemas of this service's tables and the equality/BETWEEN filter
// expressions the services emit.
type fakeStore struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
}

var fakeKeySchemas = map[string][]string{
	models.UserProfilesTable:  {"userId"},
	models.TraitVectorsTable:  {"userId"},
	models.AnswersTable:       {"userId", "questionId"},
	models.QuestionsTable:     {"questionId"},
	models.InteractionsTable:  {"senderId", "sk"},
	models.MatchesTable:       {"pairKey"},
	models.ConversationsTable: {"conversationId"},
}

func newFakeStore() *fakeStore {
	return &fakeStore{tables: make(map[string]map[string]map[string]types.AttributeValue)}
}

var _ DataStore = (*fakeStore)(nil)

func (fs *fakeStore) keyString(table string, attrs map[string]types.AttributeValue) (string, error) {
	schema, ok := fakeKeySchemas[table]
	if !ok {
		return "", fmt.Errorf("fake store: unknown table %q", table)
	}
	parts := make([]string, 0, len(schema))
	for _, attr := range schema {
		value, ok := attrs[attr].(*types.AttributeValueMemberS)
		if !ok {
			return "", fmt.Errorf("fake store: table %q missing key attr %q", table, attr)
		}
		parts = append(parts, value.Value)
	}
	return strings.Join(parts, "|"), nil
}

func (fs *fakeStore) put(table string, item map[string]types.AttributeValue) error {
	key, err := fs.keyString(table, item)
	if err != nil {
		return err
	}
	if fs.tables[table] == nil {
		fs.tables[table] = make(map[string]map[string]types.AttributeValue)
	}
	fs.tables[table][key] = item
	return nil
}

// seed marshals and stores an item, bypassing conditions. Test setup helper.
func (fs *fakeStore) seed(table string, item interface{}) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.put(table, marshaled)
}

func (fs *fakeStore) count(table string) int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return len(fs.tables[table])
}

func (fs *fakeStore) GetItem(_ context.Context, table string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	keyStr, err := fs.keyString(table, key)
	if err != nil {
		return nil, err
	}
	return fs.tables[table][keyStr], nil
}

func (fs *fakeStore) PutItem(_ context.Context, table string, item interface{}) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.put(table, marshaled)
}

func (fs *fakeStore) PutItemIfAbsent(_ context.Context, table string, item interface{}, _ string) (bool, error) {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return false, err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	key, err := fs.keyString(table, marshaled)
	if err != nil {
		return false, err
	}
	if _, exists := fs.tables[table][key]; exists {
		return false, nil
	}
	return true, fs.put(table, marshaled)
}

func (fs *fakeStore) DeleteItem(_ context.Context, table string, key map[string]types.AttributeValue) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	keyStr, err := fs.keyString(table, key)
	if err != nil {
		return err
	}
	delete(fs.tables[table], keyStr)
	return nil
}

func (fs *fakeStore) QueryItems(_ context.Context, table, keyCondition string, values map[string]types.AttributeValue, _ map[string]string, limit int32) ([]map[string]types.AttributeValue, error) {
	return fs.filter(table, keyCondition, values, limit)
}

func (fs *fakeStore) QueryItemsWithIndex(_ context.Context, table, _, keyCondition string, values map[string]types.AttributeValue, _ map[string]string, limit int32) ([]map[string]types.AttributeValue, error) {
	return fs.filter(table, keyCondition, values, limit)
}

func (fs *fakeStore) ScanItems(_ context.Context, table, filterExpression string, values map[string]types.AttributeValue, _ map[string]string) ([]map[string]types.AttributeValue, error) {
	return fs.filter(table, filterExpression, values, 0)
}

func (fs *fakeStore) TransactWrite(_ context.Context, ops []TransactOp) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	// Conditions first, so a failed one leaves nothing applied.
	for _, op := range ops {
		if op.Put == nil || op.Condition == "" {
			continue
		}
		if !strings.HasPrefix(op.Condition, "attribute_not_exists(") {
			return fmt.Errorf("fake store: unsupported condition %q", op.Condition)
		}
		marshaled, err := attributevalue.MarshalMap(op.Put)
		if err != nil {
			return err
		}
		key, err := fs.keyString(op.Table, marshaled)
		if err != nil {
			return err
		}
		if _, exists := fs.tables[op.Table][key]; exists {
			return ErrTransactionConflict
		}
	}

	for _, op := range ops {
		switch {
		case op.Put != nil:
			marshaled, err := attributevalue.MarshalMap(op.Put)
			if err != nil {
				return err
			}
			if err := fs.put(op.Table, marshaled); err != nil {
				return err
			}
		case op.Delete != nil:
			key, err := fs.keyString(op.Table, op.Delete)
			if err != nil {
				return err
			}
			delete(fs.tables[op.Table], key)
		}
	}
	return nil
}

// filter evaluates the subset of expressions the services use: clauses
// joined by AND, each either "attr = :placeholder" or
// "attr BETWEEN :low AND :high".
func (fs *fakeStore) filter(table, expression string, values map[string]types.AttributeValue, limit int32) ([]map[string]types.AttributeValue, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	var results []map[string]types.AttributeValue
	for _, item := range fs.tables[table] {
		match, err := matchesExpression(item, expression, values)
		if err != nil {
			return nil, err
		}
		if !match {
			continue
		}
		results = append(results, item)
		if limit > 0 && int32(len(results)) == limit {
			break
		}
	}
	return results, nil
}

func matchesExpression(item map[string]types.AttributeValue, expression string, values map[string]types.AttributeValue) (bool, error) {
	if expression == "" {
		return true, nil
	}
	parts := strings.Split(expression, " AND ")
	for i := 0; i < len(parts); i++ {
		clause := parts[i]
		if strings.Contains(clause, " BETWEEN ") {
			// "attr BETWEEN :low" + ":high" were split apart; rejoin.
			if i+1 >= len(parts) {
				return false, fmt.Errorf("fake store: malformed BETWEEN in %q", expression)
			}
			i++
			fields := strings.Fields(clause)
			attr, low := fields[0], fields[2]
			high := strings.TrimSpace(parts[i])
			value, ok := item[attr].(*types.AttributeValueMemberS)
			if !ok {
				return false, nil
			}
			lowValue := values[low].(*types.AttributeValueMemberS).Value
			highValue := values[high].(*types.AttributeValueMemberS).Value
			if value.Value < lowValue || value.Value > highValue {
				return false, nil
			}
			continue
		}
		fields := strings.Fields(clause)
		if len(fields) != 3 || fields[1] != "=" {
			return false, fmt.Errorf("fake store: unsupported clause %q", clause)
		}
		if !reflect.DeepEqual(item[fields[0]], values[fields[2]]) {
			return false, nil
		}
	}
	return true, nil
}

// fakeCache is an in-memory CompatibilityCache recording its traffic.
type fakeCache struct {
	mu          sync.Mutex
	entries     map[string]*models.CompatibilityScoreEntry
	puts        int
	invalidated []string
	putErr      error
	getErr      error
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]*models.CompatibilityScoreEntry)}
}

var _ CompatibilityCache = (*fakeCache)(nil)

func (fc *fakeCache) Get(_ context.Context, pairKey string) (*models.CompatibilityScoreEntry, error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.getErr != nil {
		return nil, fc.getErr
	}
	entry, ok := fc.entries[pairKey]
	if !ok || entry.Expired(time.Now()) {
		return nil, nil
	}
	return entry, nil
}

func (fc *fakeCache) Put(_ context.Context, entry *models.CompatibilityScoreEntry) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.putErr != nil {
		return fc.putErr
	}
	fc.puts++
	fc.entries[entry.PairKey] = entry
	return nil
}

func (fc *fakeCache) InvalidateUser(_ context.Context, userID string) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.invalidated = append(fc.invalidated, userID)
	for pairKey := range fc.entries {
		for _, part := range strings.SplitN(pairKey, "#", 2) {
			if part == userID {
				delete(fc.entries, pairKey)
			}
		}
	}
	return nil
}

// fakeNotifier records notifications.
type fakeNotifier struct {
	mu     sync.Mutex
	events []string // "userID:event"
}

func (fn *fakeNotifier) Notify(userID, event string, _ interface{}) {
	fn.mu.Lock()
	defer fn.mu.Unlock()
	fn.events = append(fn.events, userID+":"+event)
}
