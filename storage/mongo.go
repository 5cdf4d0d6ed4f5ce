package storage

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	currency "github.com/malusev998/currency-converter"
)

type mongoStorage struct {
	ctx        context.Context
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoStorage(config MongoDBConfig) (currency.Storage, error) {
	ctx := config.Ctx

	if ctx == nil {
		ctx = context.Background()
	}

	client, err := mongo.NewClient(options.Client().ApplyURI(config.ConnectionString))

	if err != nil {
		return nil, err
	}

	if err := client.Connect(ctx); err != nil {
		return nil, err
	}

	storage := mongoStorage{
		ctx:        ctx,
		client:     client,
		collection: client.Database(config.Database).Collection(config.Collection),
	}

	if config.Migrate {
		if err := storage.Migrate(); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
	}

	return storage, nil
}

func (m mongoStorage) GetStorageProviderName() string {
	return string(MongoDB)
}

func (m mongoStorage) Migrate() error {
	_, err := m.collection.Indexes().CreateOne(m.ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "currency", Value: 1},
			{Key: "createdAt", Value: -1},
		},
	})

	return err
}

func (m mongoStorage) Drop() error {
	return m.collection.Drop(m.ctx)
}

func (m mongoStorage) Close() error {
	return m.client.Disconnect(m.ctx)
}

func (m mongoStorage) Get(from, to string, page, perPage int64) ([]currency.ArchivedRateWithID, error) {
	return m.GetByDateAndProvider(from, to, currency.EmptyProvider, time.Time{}, time.Now(), page, perPage)
}

func (m mongoStorage) GetByProvider(from, to string, provider currency.Provider, page, perPage int64) ([]currency.ArchivedRateWithID, error) {
	return m.GetByDateAndProvider(from, to, provider, time.Time{}, time.Now(), page, perPage)
}

func (m mongoStorage) GetByDate(from, to string, start, end time.Time, page, perPage int64) ([]currency.ArchivedRateWithID, error) {
	return m.GetByDateAndProvider(from, to, currency.EmptyProvider, start, end, page, perPage)
}

func (m mongoStorage) GetByDateAndProvider(
	from, to string,
	provider currency.Provider,
	start, end time.Time,
	page, perPage int64,
) ([]currency.ArchivedRateWithID, error) {
	if err := validatePage(page, perPage); err != nil {
		return nil, err
	}

	filter := bson.M{
		"currency": pair(from, to),
		"createdAt": bson.M{
			"$gte": start,
			"$lt":  end,
		},
	}

	if provider != currency.EmptyProvider {
		filter["provider"] = string(provider)
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(offset(page, perPage)).
		SetLimit(perPage)

	cursor, err := m.collection.Find(m.ctx, filter, findOptions)

	if err != nil {
		return nil, err
	}

	defer cursor.Close(m.ctx)

	var rates []currency.ArchivedRateWithID

	for cursor.Next(m.ctx) {
		current := cursor.Current
		base, target := split(current.Lookup("currency").StringValue())

		rates = append(rates, currency.ArchivedRateWithID{
			ArchivedRate: currency.ArchivedRate{
				From:      base,
				To:        target,
				Provider:  currency.Provider(current.Lookup("provider").StringValue()),
				Rate:      current.Lookup("rate").Double(),
				CreatedAt: current.Lookup("createdAt").Time(),
			},
			ID: current.Lookup("_id").ObjectID(),
		})
	}

	return rates, cursor.Err()
}

func (m mongoStorage) Store(rates []currency.ArchivedRate) ([]currency.ArchivedRateWithID, error) {
	if len(rates) == 0 {
		return []currency.ArchivedRateWithID{}, nil
	}

	rates = append([]currency.ArchivedRate(nil), rates...)
	documents := make([]interface{}, 0, len(rates))

	for i := range rates {
		if rates[i].CreatedAt.IsZero() {
			rates[i].CreatedAt = time.Now()
		}

		documents = append(documents, bson.M{
			"currency":  pair(rates[i].From, rates[i].To),
			"rate":      rates[i].Rate,
			"provider":  string(rates[i].Provider),
			"createdAt": rates[i].CreatedAt,
		})
	}

	result, err := m.collection.InsertMany(m.ctx, documents)

	if err != nil {
		return nil, err
	}

	stored := make([]currency.ArchivedRateWithID, 0, len(rates))

	for i, id := range result.InsertedIDs {
		stored = append(stored, currency.ArchivedRateWithID{
			ArchivedRate: rates[i],
			ID:           id,
		})
	}

	return stored, nil
}
