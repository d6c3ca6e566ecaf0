package handlers

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"storefront/internal/models"
)

var errAddressNotFound = errors.New("address not found")

// AddressBook stores saved addresses. Writes that set isDefault clear the
// flag on the user's other addresses inside the same transaction.
type AddressBook struct {
	db *mongo.Database
}

func NewAddressBook(db *mongo.Database) *AddressBook {
	return &AddressBook{db: db}
}

func (b *AddressBook) collection() *mongo.Collection {
	return b.db.Collection("addresses")
}

func (b *AddressBook) List(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error) {
	cursor, err := b.collection().Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	addresses := make([]models.Address, 0)
	if err := cursor.All(ctx, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (b *AddressBook) Get(ctx context.Context, userID, id primitive.ObjectID) (models.Address, error) {
	var address models.Address
	err := b.collection().FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&address)
	if err == mongo.ErrNoDocuments {
		return models.Address{}, errAddressNotFound
	}
	return address, err
}

func (b *AddressBook) Count(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return b.collection().CountDocuments(ctx, bson.M{"userId": userID})
}

func (b *AddressBook) Create(ctx context.Context, address *models.Address) error {
	insert := func(ctx context.Context) error {
		res, err := b.collection().InsertOne(ctx, address)
		if err != nil {
			return err
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			address.ID = id
		}
		return nil
	}

	if !address.IsDefault {
		return insert(ctx)
	}
	return b.withTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := b.collection().UpdateMany(sessCtx, unsetDefaultFilter(address.UserID, primitive.NilObjectID),
			bson.M{"$set": bson.M{"isDefault": false}}); err != nil {
			return err
		}
		return insert(sessCtx)
	})
}

func (b *AddressBook) Update(ctx context.Context, address models.Address) error {
	update := func(ctx context.Context) error {
		res, err := b.collection().UpdateOne(ctx,
			bson.M{"_id": address.ID, "userId": address.UserID},
			bson.M{"$set": addressUpdateDocument(address)})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return errAddressNotFound
		}
		return nil
	}

	if !address.IsDefault {
		return update(ctx)
	}
	return b.withTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := b.collection().UpdateMany(sessCtx, unsetDefaultFilter(address.UserID, address.ID),
			bson.M{"$set": bson.M{"isDefault": false}}); err != nil {
			return err
		}
		return update(sessCtx)
	})
}

func (b *AddressBook) SetDefault(ctx context.Context, userID, id primitive.ObjectID) error {
	return b.withTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if _, err := b.collection().UpdateMany(sessCtx, unsetDefaultFilter(userID, id),
			bson.M{"$set": bson.M{"isDefault": false}}); err != nil {
			return err
		}
		res, err := b.collection().UpdateOne(sessCtx,
			bson.M{"_id": id, "userId": userID},
			bson.M{"$set": bson.M{"isDefault": true, "updatedAt": time.Now()}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return errAddressNotFound
		}
		return nil
	})
}

func (b *AddressBook) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	res, err := b.collection().DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return errAddressNotFound
	}
	return nil
}

func (b *AddressBook) withTransaction(ctx context.Context, fn func(mongo.SessionContext) error) error {
	session, err := b.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		return nil, fn(sessCtx)
	})
	return err
}

// unsetDefaultFilter matches the user's current default addresses other
// than except.
func unsetDefaultFilter(userID, except primitive.ObjectID) bson.M {
	filter := bson.M{"userId": userID, "isDefault": true}
	if !except.IsZero() {
		filter["_id"] = bson.M{"$ne": except}
	}
	return filter
}

func addressUpdateDocument(address models.Address) bson.M {
	a := address.ShippingAddress
	return bson.M{
		"firstName":   a.FirstName,
		"lastName":    a.LastName,
		"email":       a.Email,
		"phone":       a.Phone,
		"street":      a.Street,
		"city":        a.City,
		"state":       a.State,
		"zipCode":     a.ZipCode,
		"country":     a.Country,
		"countryCode": a.CountryCode,
		"isDefault":   address.IsDefault,
		"updatedAt":   address.UpdatedAt,
	}
}
