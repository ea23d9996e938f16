package store

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore is an in-process Store with the same filter semantics as the
// mongo-backed one for the operators the services use (equality, $ne, $in,
// $set, $inc, dotted paths). It backs the service tests; nothing here talks
// to a real database.
type MemoryStore struct {
	mu    sync.Mutex
	colls map[string]*memoryCollection
}

func NewMemory() *MemoryStore {
	s := &MemoryStore{colls: make(map[string]*memoryCollection)}
	// Same unique indexes EnsureIndexes creates on mongo.
	s.collection("likes").uniqueKeys = [][]string{{"postId", "userId"}}
	s.collection("users").uniqueKeys = [][]string{{"email"}}
	return s
}

func (s *MemoryStore) Users() Collection             { return s.collection("users") }
func (s *MemoryStore) Posts() Collection             { return s.collection("posts") }
func (s *MemoryStore) Comments() Collection          { return s.collection("comments") }
func (s *MemoryStore) Likes() Collection             { return s.collection("likes") }
func (s *MemoryStore) Notifications() Collection     { return s.collection("notifications") }
func (s *MemoryStore) FriendRequests() Collection    { return s.collection("friend_requests") }
func (s *MemoryStore) PushSubscriptions() Collection { return s.collection("push_subscriptions") }

func (s *MemoryStore) collection(name string) *memoryCollection {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.colls[name]; ok {
		return c
	}
	c := &memoryCollection{}
	s.colls[name] = c
	return c
}

type memoryCollection struct {
	mu         sync.Mutex
	docs       []bson.M
	uniqueKeys [][]string
}

func (c *memoryCollection) FindOne(_ context.Context, filter bson.M, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, doc := range c.docs {
		if matches(doc, filter) {
			return decodeDoc(doc, dest)
		}
	}
	return ErrNotFound
}

func (c *memoryCollection) Find(_ context.Context, filter bson.M, dest interface{}, opts *FindOptions) error {
	c.mu.Lock()
	var matched []bson.M
	for _, doc := range c.docs {
		if matches(doc, filter) {
			matched = append(matched, doc)
		}
	}
	c.mu.Unlock()

	if opts != nil && opts.SortField != "" {
		field, desc := opts.SortField, opts.SortDesc
		sort.SliceStable(matched, func(i, j int) bool {
			less := compareValues(lookupPath(matched[i], field), lookupPath(matched[j], field)) < 0
			if desc {
				return !less
			}
			return less
		})
	}
	if opts != nil && opts.Limit > 0 && int64(len(matched)) > opts.Limit {
		matched = matched[:opts.Limit]
	}

	return decodeDocs(matched, dest)
}

func (c *memoryCollection) InsertOne(_ context.Context, doc interface{}) error {
	m, err := toDoc(doc)
	if err != nil {
		return err
	}
	if _, ok := m["_id"]; !ok {
		m["_id"] = primitive.NewObjectID()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkUnique(m); err != nil {
		return err
	}
	c.docs = append(c.docs, m)
	return nil
}

func (c *memoryCollection) UpdateOne(_ context.Context, filter, update bson.M) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, doc := range c.docs {
		if matches(doc, filter) {
			applyUpdate(doc, update)
			return 1, nil
		}
	}
	return 0, nil
}

func (c *memoryCollection) UpdateMany(_ context.Context, filter, update bson.M) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, doc := range c.docs {
		if matches(doc, filter) {
			applyUpdate(doc, update)
			n++
		}
	}
	return n, nil
}

func (c *memoryCollection) UpsertOne(_ context.Context, filter, update bson.M) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, doc := range c.docs {
		if matches(doc, filter) {
			applyUpdate(doc, update)
			return nil
		}
	}

	// Insert path: seed the new doc from the filter's equality fields.
	doc := bson.M{"_id": primitive.NewObjectID()}
	for k, v := range filter {
		if _, isOp := v.(bson.M); !isOp && !strings.Contains(k, ".") {
			doc[k] = v
		}
	}
	applyUpdate(doc, update)
	if err := c.checkUnique(doc); err != nil {
		return err
	}
	c.docs = append(c.docs, doc)
	return nil
}

func (c *memoryCollection) DeleteOne(_ context.Context, filter bson.M) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, doc := range c.docs {
		if matches(doc, filter) {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (c *memoryCollection) DeleteMany(_ context.Context, filter bson.M) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var kept []bson.M
	var n int64
	for _, doc := range c.docs {
		if matches(doc, filter) {
			n++
			continue
		}
		kept = append(kept, doc)
	}
	c.docs = kept
	return n, nil
}

func (c *memoryCollection) Count(_ context.Context, filter bson.M) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, doc := range c.docs {
		if matches(doc, filter) {
			n++
		}
	}
	return n, nil
}

func (c *memoryCollection) checkUnique(doc bson.M) error {
	for _, keys := range c.uniqueKeys {
		for _, existing := range c.docs {
			same := true
			for _, k := range keys {
				if !equalValues(existing[k], doc[k]) {
					same = false
					break
				}
			}
			if same {
				return ErrDuplicateKey
			}
		}
	}
	return nil
}

// toDoc normalizes any document into a bson.M via a marshal round-trip, so
// stored docs look the way mongo would return them.
func toDoc(doc interface{}) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeDoc(doc bson.M, dest interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, dest)
}

func decodeDocs(docs []bson.M, dest interface{}) error {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Slice {
		return errors.New("store: dest must be a pointer to a slice")
	}
	slice := v.Elem()
	out := reflect.MakeSlice(slice.Type(), 0, len(docs))
	for _, doc := range docs {
		elem := reflect.New(slice.Type().Elem())
		if err := decodeDoc(doc, elem.Interface()); err != nil {
			return err
		}
		out = reflect.Append(out, elem.Elem())
	}
	slice.Set(out)
	return nil
}

func matches(doc, filter bson.M) bool {
	for key, want := range filter {
		got := lookupPath(doc, key)
		if ops, ok := want.(bson.M); ok {
			if !matchOps(got, ops) {
				return false
			}
			continue
		}
		if !equalValues(got, want) {
			return false
		}
	}
	return true
}

func matchOps(got interface{}, ops bson.M) bool {
	for op, arg := range ops {
		switch op {
		case "$ne":
			if equalValues(got, arg) {
				return false
			}
		case "$in":
			if !inList(got, arg) {
				return false
			}
		case "$exists":
			want, _ := arg.(bool)
			if (got != nil) != want {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func inList(got, arg interface{}) bool {
	v := reflect.ValueOf(arg)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return false
	}
	for i := 0; i < v.Len(); i++ {
		if equalValues(got, v.Index(i).Interface()) {
			return true
		}
	}
	return false
}

func lookupPath(doc bson.M, path string) interface{} {
	parts := strings.Split(path, ".")
	var cur interface{} = doc
	for _, p := range parts {
		m, ok := cur.(bson.M)
		if !ok {
			return nil
		}
		cur, ok = m[p]
		if !ok {
			return nil
		}
	}
	return cur
}

func applyUpdate(doc, update bson.M) {
	for op, arg := range update {
		fields, ok := arg.(bson.M)
		if !ok {
			continue
		}
		switch op {
		case "$set":
			for k, v := range fields {
				setPath(doc, k, v)
			}
		case "$inc":
			for k, v := range fields {
				setPath(doc, k, asInt64(lookupPath(doc, k))+asInt64(v))
			}
		}
	}
}

func setPath(doc bson.M, path string, value interface{}) {
	parts := strings.Split(path, ".")
	cur := doc
	for _, p := range parts[:len(parts)-1] {
		next, ok := cur[p].(bson.M)
		if !ok {
			next = bson.M{}
			cur[p] = next
		}
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}

func equalValues(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			return af == bf
		}
		return false
	}
	return reflect.DeepEqual(a, b)
}

func compareValues(a, b interface{}) int {
	if af, aok := asFloat(a); aok {
		if bf, bok := asFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	as, _ := a.(string)
	bs, _ := b.(string)
	return strings.Compare(as, bs)
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case primitive.DateTime:
		return float64(n), true
	}
	return 0, false
}

func asInt64(v interface{}) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	}
	return 0
}
