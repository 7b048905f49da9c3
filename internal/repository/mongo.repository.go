package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/duccv/employee-api/internal/model"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

const (
	usersCollection     = "users"
	employeesCollection = "employees"
)

type userDocument struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	Username  string        `bson:"username"`
	Email     string        `bson:"email"`
	Password  string        `bson:"password"`
	CreatedAt time.Time     `bson:"createdAt"`
}

func (d userDocument) toModel() *model.User {
	return &model.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt,
	}
}

type employeeDocument struct {
	ID         bson.ObjectID `bson:"_id,omitempty"`
	Name       string        `bson:"name"`
	Position   string        `bson:"position"`
	Department string        `bson:"department"`
	Salary     float64       `bson:"salary"`
	CreatedAt  time.Time     `bson:"createdAt"`
	UpdatedAt  time.Time     `bson:"updatedAt"`
}

func (d employeeDocument) toModel() model.Employee {
	return model.Employee{
		ID:         d.ID.Hex(),
		Name:       d.Name,
		Position:   d.Position,
		Department: d.Department,
		Salary:     d.Salary,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

// EnsureMongoIndexes creates the unique user indexes. It is idempotent.
func EnsureMongoIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_1"),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("username_1"),
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	zap.L().Debug("MongoDB indexes ensured", zap.String("collection", usersCollection))
	return nil
}

// NewMongoRepositories ensures indexes and returns stores over db.
func NewMongoRepositories(ctx context.Context, db *mongo.Database) (Repositories, error) {
	if err := EnsureMongoIndexes(ctx, db); err != nil {
		return Repositories{}, err
	}
	return Repositories{
		Users:     NewMongoUserRepository(db),
		Employees: NewMongoEmployeeRepository(db),
	}, nil
}

type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(usersCollection)}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	doc := userDocument{
		Username:  user.Username,
		Email:     user.Email,
		Password:  user.PasswordHash,
		CreatedAt: time.Now().UTC(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &DuplicateError{Field: duplicateField(duplicateIndexName(err.Error())), Err: err}
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert user: unexpected id type %T", res.InsertedID)
	}
	doc.ID = id
	return doc.toModel(), nil
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toModel(), nil
}

type MongoEmployeeRepository struct {
	coll *mongo.Collection
}

func NewMongoEmployeeRepository(db *mongo.Database) *MongoEmployeeRepository {
	return &MongoEmployeeRepository{coll: db.Collection(employeesCollection)}
}

func (r *MongoEmployeeRepository) Create(ctx context.Context, employee *model.Employee) (*model.Employee, error) {
	now := time.Now().UTC()
	doc := employeeDocument{
		Name:       employee.Name,
		Position:   employee.Position,
		Department: employee.Department,
		Salary:     employee.Salary,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert employee: %w", err)
	}
	id, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert employee: unexpected id type %T", res.InsertedID)
	}
	doc.ID = id

	out := doc.toModel()
	return &out, nil
}

func (r *MongoEmployeeRepository) FindAll(ctx context.Context) ([]model.Employee, error) {
	return r.find(ctx, bson.D{})
}

func (r *MongoEmployeeRepository) FindByID(ctx context.Context, id string) (*model.Employee, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	var doc employeeDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find employee: %w", err)
	}
	out := doc.toModel()
	return &out, nil
}

func (r *MongoEmployeeRepository) Update(ctx context.Context, id string, patch model.EmployeePatch) (*model.Employee, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	set := bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}
	if patch.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *patch.Name})
	}
	if patch.Position != nil {
		set = append(set, bson.E{Key: "position", Value: *patch.Position})
	}
	if patch.Department != nil {
		set = append(set, bson.E{Key: "department", Value: *patch.Department})
	}
	if patch.Salary != nil {
		set = append(set, bson.E{Key: "salary", Value: *patch.Salary})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc employeeDocument
	err = r.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: set}},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update employee: %w", err)
	}
	out := doc.toModel()
	return &out, nil
}

func (r *MongoEmployeeRepository) Delete(ctx context.Context, id string) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoEmployeeRepository) Search(ctx context.Context, filter model.EmployeeFilter) ([]model.Employee, error) {
	return r.find(ctx, mongoSearchFilter(filter))
}

// mongoSearchFilter matches each set field as a literal, case-insensitive
// substring.
func mongoSearchFilter(filter model.EmployeeFilter) bson.D {
	query := bson.D{}
	for _, f := range []struct {
		key, value string
	}{
		{"name", filter.Name},
		{"position", filter.Position},
		{"department", filter.Department},
	} {
		if f.value == "" {
			continue
		}
		query = append(query, bson.E{
			Key:   f.key,
			Value: bson.Regex{Pattern: regexp.QuoteMeta(f.value), Options: "i"},
		})
	}
	return query
}

func (r *MongoEmployeeRepository) find(ctx context.Context, filter bson.D) ([]model.Employee, error) {
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find employees: %w", err)
	}

	var docs []employeeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode employees: %w", err)
	}

	out := make([]model.Employee, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toModel())
	}
	return out, nil
}

// duplicateIndexName pulls the index name out of an E11000 message such as
// "... index: email_1 dup key: { email: \"a@x.com\" }". The key value that
// follows is ignored.
func duplicateIndexName(msg string) string {
	_, rest, ok := strings.Cut(msg, "index: ")
	if !ok {
		return ""
	}
	name, _, _ := strings.Cut(rest, " ")
	return name
}
