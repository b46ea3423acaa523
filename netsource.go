package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"git.fiblab.net/sim/tramsim/registry"
	"git.fiblab.net/sim/tramsim/sim"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// 路网文档，file与mongo两种来源共享同一形状
type networkDoc struct {
	City  string    `json:"city" bson:"city"`
	Nodes []nodeDoc `json:"nodes" bson:"nodes"`
	Edges []edgeDoc `json:"edges" bson:"edges"`
}

type nodeDoc struct {
	ID  int64   `json:"id" bson:"id"`
	Lat float64 `json:"lat" bson:"lat"`
	Lon float64 `json:"lon" bson:"lon"`
}

type edgeDoc struct {
	U      int64   `json:"u" bson:"u"`
	V      int64   `json:"v" bson:"v"`
	Length float64 `json:"length" bson:"length"`
}

func (d *networkDoc) build() *sim.Network {
	n := sim.NewNetwork()
	for _, node := range d.Nodes {
		n.AddNode(node.ID, node.Lat, node.Lon)
	}
	for _, e := range d.Edges {
		n.AddEdge(e.U, e.V, e.Length, false)
	}
	return n
}

// NewNetworkSource builds a sim.NetworkLoader from a source path:
// a JSON file for local runs, or a mongo collection with one document per
// city slug.
func NewNetworkSource(p *Path, mongoURI string) (sim.NetworkLoader, error) {
	if p.IsFile() {
		return &fileNetworkSource{path: p.File}, nil
	}
	if mongoURI == "" {
		return nil, fmt.Errorf("mongo_uri is required for network source %s", p)
	}
	return &mongoNetworkSource{uri: mongoURI, db: p.DB, coll: p.Coll}, nil
}

type fileNetworkSource struct {
	path string
}

func (s *fileNetworkSource) LoadNetwork(city string) (*sim.Network, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read network file %s: %w", s.path, err)
	}
	doc := &networkDoc{}
	if err := json.Unmarshal(b, doc); err != nil {
		return nil, fmt.Errorf("invalid network file %s: %w", s.path, err)
	}
	if doc.City != "" && doc.City != registry.Slugify(city) {
		log.Warnf("network file %s is for city %q, requested %q", s.path, doc.City, city)
	}
	return doc.build(), nil
}

type mongoNetworkSource struct {
	uri  string
	db   string
	coll string
}

func (s *mongoNetworkSource) LoadNetwork(city string) (*sim.Network, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(s.uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	defer client.Disconnect(context.Background())

	slug := registry.Slugify(city)
	doc := &networkDoc{}
	err = client.Database(s.db).Collection(s.coll).
		FindOne(ctx, bson.M{"city": slug}).Decode(doc)
	if err == mongo.ErrNoDocuments {
		return nil, fmt.Errorf("no network document for city %q in %s.%s", slug, s.db, s.coll)
	} else if err != nil {
		return nil, fmt.Errorf("failed to download network of %q: %w", slug, err)
	}
	return doc.build(), nil
}
