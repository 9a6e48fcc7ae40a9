// mongo — реализация storage.Storage поверх MongoDB.
package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/pribylovaa/go-tour-booking/internal/config"
	"github.com/pribylovaa/go-tour-booking/internal/models"
	"github.com/pribylovaa/go-tour-booking/internal/storage"
)

const (
	toursCollection    = "tours"
	usersCollection    = "users"
	reviewsCollection  = "reviews"
	bookingsCollection = "bookings"

	defaultDBName = "tours"
)

// Mongo — тонкий адаптер подключения и коллекций MongoDB.
type Mongo struct {
	client *mongodriver.Client
	db     *mongodriver.Database

	tours    *tourStorage
	users    *userStorage
	reviews  *reviewStorage
	bookings *collection[models.Booking]
}

// New подключается к MongoDB, проверяет соединение и обеспечивает индексацию.
func New(ctx context.Context, cfg *config.Config) (*Mongo, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mongo: nil config")
	}

	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("mongo: empty cfg.DB.URL")
	}

	cli, err := mongodriver.Connect(ctx, options.Client().ApplyURI(cfg.DB.URL))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := cli.Ping(ctx, readpref.Primary()); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := cli.Database(databaseFromURI(cfg.DB.URL))

	m := &Mongo{
		client:   cli,
		db:       db,
		tours:    &tourStorage{collection[models.Tour]{coll: db.Collection(toursCollection)}},
		users:    &userStorage{collection[models.User]{coll: db.Collection(usersCollection)}},
		reviews:  &reviewStorage{collection[models.Review]{coll: db.Collection(reviewsCollection)}},
		bookings: &collection[models.Booking]{coll: db.Collection(bookingsCollection)},
	}

	if err := m.ensureIndexes(ctx); err != nil {
		_ = m.Close(context.Background())
		return nil, err
	}

	return m, nil
}

func (m *Mongo) Tours() storage.TourStorage                   { return m.tours }
func (m *Mongo) Users() storage.UserStorage                   { return m.users }
func (m *Mongo) Reviews() storage.ReviewStorage               { return m.reviews }
func (m *Mongo) Bookings() storage.Collection[models.Booking] { return m.bookings }

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// ensureIndexes создаёт индексы, необходимые сервису:
//   - уникальность email пользователей и имени тура;
//   - уникальность пары (tour_id, user_id) отзывов;
//   - каталожный индекс price/ratings и slug тура.
func (m *Mongo) ensureIndexes(ctx context.Context) error {
	users := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("uniq_email").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "password_reset_token", Value: 1}},
			Options: options.Index().SetName("reset_token").SetSparse(true),
		},
	}
	if _, err := m.users.coll.Indexes().CreateMany(ctx, users); err != nil {
		return fmt.Errorf("mongo ensure user indexes: %w", err)
	}

	tours := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("uniq_name").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetName("slug"),
		},
		{
			Keys:    bson.D{{Key: "price", Value: 1}, {Key: "ratings_average", Value: -1}},
			Options: options.Index().SetName("price_ratings"),
		},
	}
	if _, err := m.tours.coll.Indexes().CreateMany(ctx, tours); err != nil {
		return fmt.Errorf("mongo ensure tour indexes: %w", err)
	}

	reviews := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "tour_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetName("uniq_tour_user").SetUnique(true),
		},
	}
	if _, err := m.reviews.coll.Indexes().CreateMany(ctx, reviews); err != nil {
		return fmt.Errorf("mongo ensure review indexes: %w", err)
	}

	bookings := []mongodriver.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("user_created_desc"),
		},
	}
	if _, err := m.bookings.coll.Indexes().CreateMany(ctx, bookings); err != nil {
		return fmt.Errorf("mongo ensure booking indexes: %w", err)
	}

	return nil
}

// databaseFromURI извлекает имя базы данных из URI-пути mongodb.
// Если оно отсутствует или не поддаётся расшифровке, возвращает значение по умолчанию.
func databaseFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err == nil {
		if name := strings.Trim(u.Path, "/"); name != "" {
			return name
		}
	}

	return defaultDBName
}
