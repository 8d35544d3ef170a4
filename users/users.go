package users

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
	"golang.org/x/crypto/bcrypt"
)

// GetUsers lists accounts for the admin panel, newest first.
func GetUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := utils.ParseQueryOptions(r)

	total, err := db.UserCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		http.Error(w, "Could not retrieve users", http.StatusInternalServerError)
		return
	}

	cursor, err := db.UserCollection.Find(ctx, bson.M{}, options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(opts.Skip()).
		SetLimit(int64(opts.Limit)))
	if err != nil {
		http.Error(w, "Could not retrieve users", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var userList []models.User
	if err := cursor.All(ctx, &userList); err != nil {
		http.Error(w, "Error reading user data", http.StatusInternalServerError)
		return
	}
	if userList == nil {
		userList = []models.User{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"data": userList,
		"meta": utils.M{
			"total":      total,
			"page":       opts.Page,
			"limit":      opts.Limit,
			"totalPages": utils.TotalPages(total, opts.Limit),
		},
	})
}

// GetUser returns one account.
func GetUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"userid": ps.ByName("userid")}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Could not retrieve user", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}

// EditUser updates profile fields. Only a known subset is writable; a new
// password is re-hashed before storage.
func EditUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		FullName *string `json:"fullName"`
		Phone    *string `json:"phone"`
		Country  *string `json:"country"`
		Role     *string `json:"role"`
		Password *string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}

	set := bson.M{"updatedAt": time.Now()}
	if payload.FullName != nil {
		set["fullName"] = *payload.FullName
	}
	if payload.Phone != nil {
		set["phone"] = *payload.Phone
	}
	if payload.Country != nil {
		set["country"] = *payload.Country
	}
	if payload.Role != nil {
		if *payload.Role != models.RoleAdmin && *payload.Role != models.RoleUser {
			http.Error(w, "Invalid role", http.StatusBadRequest)
			return
		}
		set["role"] = *payload.Role
	}
	if payload.Password != nil {
		if len(*payload.Password) < 6 {
			http.Error(w, "Password must be at least 6 characters", http.StatusBadRequest)
			return
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*payload.Password), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, "Failed to update user", http.StatusInternalServerError)
			return
		}
		set["password"] = string(hashed)
	}

	res := db.UserCollection.FindOneAndUpdate(ctx,
		bson.M{"userid": ps.ByName("userid")},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var updated models.User
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "User not found", http.StatusNotFound)
			return
		}
		log.Println("EditUser update error:", err)
		http.Error(w, "Failed to update user", http.StatusInternalServerError)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, updated)
}

// DeleteUser removes an account. Orders keep their user reference for the
// books.
func DeleteUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.UserCollection.DeleteOne(ctx, bson.M{"userid": ps.ByName("userid")})
	if err != nil {
		http.Error(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetUserOrders lists a user's order history, newest first.
func GetUserOrders(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.OrderCollection.Find(ctx,
		bson.M{"user": ps.ByName("userid")},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		http.Error(w, "Could not retrieve orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var orderList []models.Order
	if err := cursor.All(ctx, &orderList); err != nil {
		http.Error(w, "Error reading order data", http.StatusInternalServerError)
		return
	}
	if orderList == nil {
		orderList = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, orderList)
}
