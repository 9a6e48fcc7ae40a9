package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pribylovaa/go-tour-booking/internal/query"
	"github.com/pribylovaa/go-tour-booking/internal/storage"
)

// collection — универсальная реализация storage.Collection[T] поверх одной
// коллекции MongoDB. Конкретные хранилища (tours/users/reviews) встраивают её
// и добавляют собственные операции.
type collection[T any] struct {
	coll *mongodriver.Collection
}

// InsertOne вставляет документ и перечитывает его по сгенерированному _id,
// чтобы вернуть запись ровно в том виде, в каком она лежит в БД.
func (c *collection[T]) InsertOne(ctx context.Context, doc *T) (*T, error) {
	const op = "storage/mongo/InsertOne"

	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return nil, fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("%s: inserted id type", op)
	}

	return c.findByOID(ctx, op, oid)
}

// FindByID возвращает документ по строковому идентификатору.
// Некорректный формат id — ErrInvalidID, отсутствие записи — ErrNotFound.
func (c *collection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	const op = "storage/mongo/FindByID"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidID)
	}

	return c.findByOID(ctx, op, oid)
}

func (c *collection[T]) findByOID(ctx context.Context, op string, oid primitive.ObjectID) (*T, error) {
	var out T
	if err := c.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&out); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// UpdateByID применяет частичное обновление и возвращает обновлённый документ.
// updated_at штампуется здесь: любая мутация сдвигает его.
func (c *collection[T]) UpdateByID(ctx context.Context, id string, patch map[string]any) (*T, error) {
	const op = "storage/mongo/UpdateByID"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidID)
	}

	if len(patch) == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range patch {
		set[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var out T
	err = c.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: set}},
		opts,
	).Decode(&out)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		if mongodriver.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &out, nil
}

// DeleteByID удаляет документ по идентификатору.
func (c *collection[T]) DeleteByID(ctx context.Context, id string) error {
	const op = "storage/mongo/DeleteByID"

	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return fmt.Errorf("%s: %w", op, storage.ErrInvalidID)
	}

	res, err := c.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.DeletedCount == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// FindMany выполняет план выборки: фильтр+scope, сортировка, проекция,
// skip/limit — прямое отображение query.Plan на опции драйвера.
func (c *collection[T]) FindMany(ctx context.Context, plan *query.Plan, scope storage.Scope) ([]T, error) {
	const op = "storage/mongo/FindMany"

	findOpts := options.Find().
		SetSort(planSort(plan)).
		SetSkip(plan.Skip).
		SetLimit(plan.Limit)

	if proj := planProjection(plan); proj != nil {
		findOpts.SetProjection(proj)
	}

	cur, err := c.coll.Find(ctx, planFilter(plan, scope), findOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	var items []T
	for cur.Next(ctx) {
		var item T
		if err := cur.Decode(&item); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}

		items = append(items, item)
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return items, nil
}

// CountMany возвращает количество записей под фильтром плана без пагинации.
func (c *collection[T]) CountMany(ctx context.Context, plan *query.Plan, scope storage.Scope) (int64, error) {
	const op = "storage/mongo/CountMany"

	n, err := c.coll.CountDocuments(ctx, planFilter(plan, scope))
	if err != nil {
		return 0, fmt.Errorf("%s: count: %w", op, err)
	}

	return n, nil
}

// planFilter транслирует условия плана в нативный синтаксис сравнений MongoDB.
// Несколько равенств по одному полю сворачиваются в $in; операторы сравнения
// объединяются в один операторный документ. Scope накладывается поверх и
// имеет приоритет.
func planFilter(plan *query.Plan, scope storage.Scope) bson.M {
	filter := bson.M{}

	for field, conds := range plan.Filter {
		var eqs []any
		ops := bson.M{}

		for _, cond := range conds {
			switch cond.Op {
			case query.OpGt:
				ops["$gt"] = cond.Value
			case query.OpGte:
				ops["$gte"] = cond.Value
			case query.OpLt:
				ops["$lt"] = cond.Value
			case query.OpLte:
				ops["$lte"] = cond.Value
			default:
				eqs = append(eqs, cond.Value)
			}
		}

		switch {
		case len(ops) > 0:
			if len(eqs) == 1 {
				ops["$eq"] = eqs[0]
			} else if len(eqs) > 1 {
				ops["$in"] = eqs
			}
			filter[field] = ops
		case len(eqs) == 1:
			filter[field] = eqs[0]
		case len(eqs) > 1:
			filter[field] = bson.M{"$in": eqs}
		}
	}

	for field, value := range scope {
		filter[field] = value
	}

	return filter
}

// planSort — порядок сортировки; _id добавляется последним ключом для
// стабильности страниц при равных значениях.
func planSort(plan *query.Plan) bson.D {
	sort := make(bson.D, 0, len(plan.Sort)+1)
	for _, s := range plan.Sort {
		dir := 1
		if s.Desc {
			dir = -1
		}

		sort = append(sort, bson.E{Key: s.Field, Value: dir})
	}

	sort = append(sort, bson.E{Key: "_id", Value: 1})

	return sort
}

// planProjection — inclusion-проекция из директивы fields (nil — без проекции).
func planProjection(plan *query.Plan) bson.D {
	if len(plan.Fields) == 0 {
		return nil
	}

	proj := make(bson.D, 0, len(plan.Fields))
	for _, f := range plan.Fields {
		proj = append(proj, bson.E{Key: f, Value: 1})
	}

	return proj
}
