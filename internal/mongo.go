package internal

import (
	"context"
	"fmt"
	"log"
	"payfast/config"
	"payfast/entity"
	"payfast/services"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionLog           = "payment_log"
	collectionGatewayCalls  = "gateway_calls"
	collectionNotifications = "notifications"
)

type MongoDB struct {
	ctx              context.Context
	clientOptions    *options.ClientOptions
	database         string
	logRecordsNumber int64
}

func NewMongoClient(conf *config.Config) (*MongoDB, error) {
	if !conf.Mongo.Enabled {
		return nil, nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri)
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	client := &MongoDB{
		ctx:              context.Background(),
		clientOptions:    clientOptions,
		database:         conf.Mongo.Database,
		logRecordsNumber: conf.LogRecords,
	}
	return client, nil
}

func (m *MongoDB) connect() (*mongo.Client, error) {
	connection, err := mongo.Connect(m.ctx, m.clientOptions)
	if err != nil {
		return nil, err
	}
	return connection, nil
}

func (m *MongoDB) disconnect(connection *mongo.Client) {
	err := connection.Disconnect(m.ctx)
	if err != nil {
		log.Println("mongodb disconnect error", err)
	}
}

func (m *MongoDB) WriteLogMessage(data services.Data) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)
	collection := connection.Database(m.database).Collection(collectionLog)
	if _, err = collection.InsertOne(m.ctx, data); err != nil {
		return err
	}
	m.truncateLog(connection)
	return nil
}

// truncateLog drops the oldest log records over the configured cap.
// A zero cap disables truncation.
func (m *MongoDB) truncateLog(connection *mongo.Client) {
	if m.logRecordsNumber <= 0 {
		return
	}
	collection := connection.Database(m.database).Collection(collectionLog)
	count, err := collection.CountDocuments(m.ctx, bson.D{})
	if err != nil || count <= m.logRecordsNumber {
		return
	}
	opt := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}).SetLimit(count - m.logRecordsNumber)
	cursor, err := collection.Find(m.ctx, bson.D{}, opt)
	if err != nil {
		return
	}
	var old []bson.M
	if err = cursor.All(m.ctx, &old); err != nil {
		return
	}
	for _, record := range old {
		_, _ = collection.DeleteOne(m.ctx, bson.D{{Key: "_id", Value: record["_id"]}})
	}
}

func (m *MongoDB) SaveGatewayCall(ctx context.Context, call *entity.GatewayCall) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionGatewayCalls)
	_, err = collection.InsertOne(ctx, call)
	return err
}

func (m *MongoDB) GetGatewayCalls(ctx context.Context, token string) ([]entity.GatewayCall, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionGatewayCalls)
	filter := bson.D{{Key: "token", Value: token}}
	opt := options.Find().SetSort(bson.D{{Key: "time", Value: -1}})
	cursor, err := collection.Find(ctx, filter, opt)
	if err != nil {
		return nil, err
	}
	var calls []entity.GatewayCall
	if err = cursor.All(ctx, &calls); err != nil {
		return nil, err
	}
	return calls, nil
}

func (m *MongoDB) SaveNotification(ctx context.Context, notification *entity.Notification) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(collectionNotifications)
	_, err = collection.InsertOne(ctx, notification)
	return err
}
