package exploration

import (
	"context"
	stderrors "errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/chainlens/chainlens/pkg/errors"
	"github.com/chainlens/chainlens/pkg/graph"
	"github.com/chainlens/chainlens/pkg/layout"
)

// CollectionName is the MongoDB collection explorations live in.
const CollectionName = "explorations"

// MongoStore stores explorations in MongoDB, one document per exploration
// keyed by _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
	owned  bool
}

// NewMongoStore connects to uri, verifies the connection and ensures the
// listing index exists. Close disconnects the client.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "ping mongodb")
	}

	s := &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(CollectionName),
		owned:  true,
	}
	_, err = s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "updated_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "create index")
	}
	return s, nil
}

// NewMongoStoreFromCollection wraps a collection whose client the caller
// manages. Close does not disconnect it.
func NewMongoStoreFromCollection(coll *mongo.Collection) *MongoStore {
	return &MongoStore{client: coll.Database().Client(), coll: coll}
}

// mongoDoc is the stored form. Positions are kept as an array because node
// IDs are not guaranteed to be valid BSON field names.
type mongoDoc struct {
	ID        string          `bson:"_id"`
	Name      string          `bson:"name,omitempty"`
	Graph     graph.Graph     `bson:"graph"`
	Positions []positionDoc   `bson:"positions"`
	Viewport  layout.Viewport `bson:"viewport"`
	CreatedAt time.Time       `bson:"created_at"`
	UpdatedAt time.Time       `bson:"updated_at"`
}

type positionDoc struct {
	ID string  `bson:"id"`
	X  float64 `bson:"x"`
	Y  float64 `bson:"y"`
}

func toDoc(e *Exploration) mongoDoc {
	doc := mongoDoc{
		ID:        e.ID,
		Name:      e.Name,
		Graph:     e.Graph,
		Positions: make([]positionDoc, 0, len(e.Positions)),
		Viewport:  e.Viewport,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	for _, id := range e.Graph.IDs() {
		if p, ok := e.Positions[id]; ok {
			doc.Positions = append(doc.Positions, positionDoc{ID: id, X: p.X, Y: p.Y})
		}
	}
	return doc
}

func fromDoc(doc mongoDoc) *Exploration {
	e := &Exploration{
		ID:        doc.ID,
		Name:      doc.Name,
		Graph:     doc.Graph,
		Positions: make(layout.Positions, len(doc.Positions)),
		Viewport:  doc.Viewport,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	for _, p := range doc.Positions {
		e.Positions[p.ID] = layout.Point{X: p.X, Y: p.Y}
	}
	return e
}

func (s *MongoStore) Get(ctx context.Context, id string) (*Exploration, error) {
	var doc mongoDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if stderrors.Is(err, mongo.ErrNoDocuments) {
		return nil, NotFound(id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "find exploration %s", id)
	}
	return fromDoc(doc), nil
}

func (s *MongoStore) Put(ctx context.Context, exp *Exploration) error {
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": exp.ID}, toDoc(exp), options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "save exploration %s", exp.ID)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "delete exploration %s", id)
	}
	if res.DeletedCount == 0 {
		return NotFound(id)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]*Exploration, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}})
	cur, err := s.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list explorations")
	}
	var docs []mongoDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "decode explorations")
	}
	out := make([]*Exploration, len(docs))
	for i, d := range docs {
		out[i] = fromDoc(d)
	}
	return out, nil
}

// Close disconnects the client if the store created it.
func (s *MongoStore) Close() error {
	if !s.owned {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
