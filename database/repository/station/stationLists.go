package stationRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vehiclecare/database"
	"vehiclecare/models"

	"go.mongodb.org/mongo-driver/bson"
)

// The booking lists are only ever changed with single-document atomic operators so
// concurrent transitions on the same station never overwrite each other's edits.

func (r *MongoStationRepo) AddToList(ctx context.Context, id string, list models.StationList, bookingID string) error {
	return r.updateLists(ctx, bson.M{"id": id}, bson.M{
		"$addToSet": bson.M{string(list): bookingID},
	}, list)
}

func (r *MongoStationRepo) RemoveFromList(ctx context.Context, id string, list models.StationList, bookingID string) error {
	return r.updateLists(ctx, bson.M{"id": id}, bson.M{
		"$pull": bson.M{string(list): bookingID},
	}, list)
}

func (r *MongoStationRepo) MoveBetweenLists(ctx context.Context, id string, from, to models.StationList, bookingID string) error {
	if !from.IsValid() || !to.IsValid() || from == to {
		return fmt.Errorf("invalid list move %q -> %q", from, to)
	}
	filter := bson.M{"id": id, string(to): bson.M{"$ne": bookingID}}
	update := bson.M{
		"$pull": bson.M{string(from): bookingID},
		"$push": bson.M{string(to): bookingID},
	}
	err := r.updateLists(ctx, filter, update, to)
	if !errors.Is(err, database.ErrNotFound) {
		return err
	}

	// No match: tell "station missing" apart from "already in the target list".
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return getErr
	}
	return fmt.Errorf("booking %s already in %s of station %s: %w", bookingID, to, id, database.ErrConflict)
}

func (r *MongoStationRepo) ListContains(ctx context.Context, id string, list models.StationList, bookingID string) (bool, error) {
	ctx, cancel := database.NewContext(ctx, database.DefaultTimeout)
	defer cancel()

	if _, err := r.GetByID(ctx, id); err != nil {
		return false, err
	}
	n, err := r.coll.CountDocuments(ctx, bson.M{"id": id, string(list): bookingID})
	if err != nil {
		return false, fmt.Errorf("failed to inspect %s of station %s: %w", list, id, err)
	}
	return n > 0, nil
}

func (r *MongoStationRepo) updateLists(ctx context.Context, filter, update bson.M, list models.StationList) error {
	if !list.IsValid() {
		return fmt.Errorf("unknown station list %q", list)
	}
	ctx, cancel := database.NewContext(ctx, database.DefaultTimeout)
	defer cancel()

	update["$set"] = bson.M{"updatedAt": time.Now().UTC()}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update %s of station: %w", list, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("station list update matched nothing: %w", database.ErrNotFound)
	}
	return nil
}
