package transport

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"andariego/db"
	"andariego/models"
	"andariego/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateTransport registers a transport option assignable to tours.
func CreateTransport(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var t models.Transport
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if t.Name.IsZero() {
		http.Error(w, "Name is required", http.StatusBadRequest)
		return
	}
	if t.Price < 0 {
		http.Error(w, "Price cannot be negative", http.StatusBadRequest)
		return
	}

	t.TransportID = utils.GenerateID(12)
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt

	if _, err := db.TransportCollection.InsertOne(ctx, t); err != nil {
		log.Println("CreateTransport InsertOne error:", err)
		http.Error(w, "Failed to create transport", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, t)
}

// GetTransports lists all transport options.
func GetTransports(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.TransportCollection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		http.Error(w, "Could not retrieve transports", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var transports []models.Transport
	if err := cursor.All(ctx, &transports); err != nil {
		http.Error(w, "Error reading transport data", http.StatusInternalServerError)
		return
	}
	if transports == nil {
		transports = []models.Transport{}
	}

	utils.RespondWithJSON(w, http.StatusOK, transports)
}

// GetTransport returns one transport option by id.
func GetTransport(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var t models.Transport
	err := db.TransportCollection.FindOne(ctx, bson.M{"transportid": ps.ByName("transportid")}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "Transport not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Could not retrieve transport", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, t)
}

// EditTransport applies a partial update.
func EditTransport(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var patch bson.M
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	delete(patch, "transportid")
	delete(patch, "createdAt")
	delete(patch, "updatedAt")
	if len(patch) == 0 {
		http.Error(w, "Nothing to update", http.StatusBadRequest)
		return
	}
	patch["updatedAt"] = time.Now()

	res := db.TransportCollection.FindOneAndUpdate(ctx,
		bson.M{"transportid": ps.ByName("transportid")},
		bson.M{"$set": patch},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated models.Transport
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "Transport not found", http.StatusNotFound)
			return
		}
		log.Println("EditTransport update error:", err)
		http.Error(w, "Failed to update transport", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// DeleteTransport removes a transport option and unlinks it from tours.
func DeleteTransport(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	transportID := ps.ByName("transportid")

	res, err := db.TransportCollection.DeleteOne(ctx, bson.M{"transportid": transportID})
	if err != nil {
		http.Error(w, "Failed to delete transport", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Transport not found", http.StatusNotFound)
		return
	}

	_, err = db.TourCollection.UpdateMany(ctx,
		bson.M{"transportOptionIds": transportID},
		bson.M{"$pull": bson.M{"transportOptionIds": transportID}},
	)
	if err != nil {
		log.Printf("Failed to unlink transport %s from tours: %v", transportID, err)
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
