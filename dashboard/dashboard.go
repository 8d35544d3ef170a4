package dashboard

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"time"

	"andariego/db"
	"andariego/models"
	"andariego/rdx"
	"andariego/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	statsCacheKey = "dashboard:stats"
	statsCacheTTL = 60 * time.Second
	incomeMonths  = 6
)

type Stats struct {
	OrdersThisMonth int64          `json:"ordersThisMonth"`
	UsersThisMonth  int64          `json:"usersThisMonth"`
	TotalOrders     int64          `json:"totalOrders"`
	TotalUsers      int64          `json:"totalUsers"`
	TotalTours      int64          `json:"totalTours"`
	TotalIncome     float64        `json:"totalIncome"`
	TotalCustomers  int            `json:"totalCustomers"`
	MonthlyIncome   []MonthlyPoint `json:"monthlyIncome"`
	RecentActivity  []Activity     `json:"recentActivity"`
}

// MonthlyPoint is one bucket of the trailing income series.
type MonthlyPoint struct {
	Month  string  `json:"month"`
	Income float64 `json:"income"`
}

// Activity is one feed entry, either a new order or a new signup.
type Activity struct {
	Type      string    `json:"type"`
	RefID     string    `json:"refid"`
	Label     string    `json:"label"`
	Timestamp time.Time `json:"timestamp"`
}

// GetStats serves the admin dashboard. The whole payload is cached briefly
// in redis; the numbers tolerate a minute of staleness.
func GetStats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if cached, err := rdx.RdxGet(statsCacheKey); err == nil && cached != "" {
		var stats Stats
		if err := json.Unmarshal([]byte(cached), &stats); err == nil {
			utils.RespondWithJSON(w, http.StatusOK, stats)
			return
		}
	}

	stats, err := computeStats(ctx, time.Now())
	if err != nil {
		log.Println("Dashboard stats error:", err)
		http.Error(w, "Could not compute dashboard stats", http.StatusInternalServerError)
		return
	}

	if data, err := json.Marshal(stats); err == nil {
		if err := rdx.RdxSet(statsCacheKey, string(data), statsCacheTTL); err != nil {
			log.Println("Dashboard cache write failed:", err)
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, stats)
}

func computeStats(ctx context.Context, now time.Time) (*Stats, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := &Stats{}
	var err error

	if stats.OrdersThisMonth, err = db.OrderCollection.CountDocuments(ctx,
		bson.M{"createdAt": bson.M{"$gte": monthStart}}); err != nil {
		return nil, err
	}
	if stats.UsersThisMonth, err = db.UserCollection.CountDocuments(ctx,
		bson.M{"createdAt": bson.M{"$gte": monthStart}}); err != nil {
		return nil, err
	}
	if stats.TotalOrders, err = db.OrderCollection.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, err
	}
	if stats.TotalUsers, err = db.UserCollection.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, err
	}
	if stats.TotalTours, err = db.TourCollection.CountDocuments(ctx, bson.M{}); err != nil {
		return nil, err
	}

	customers, err := db.OrderCollection.Distinct(ctx, "user", bson.M{"user": bson.M{"$ne": ""}})
	if err != nil {
		return nil, err
	}
	stats.TotalCustomers = len(customers)

	if stats.TotalIncome, stats.MonthlyIncome, err = incomeSeries(ctx, now); err != nil {
		return nil, err
	}
	if stats.RecentActivity, err = recentActivity(ctx); err != nil {
		return nil, err
	}

	return stats, nil
}

// incomeSeries sums totalPrice per calendar month for the trailing window,
// oldest bucket first, plus the all-time total.
func incomeSeries(ctx context.Context, now time.Time) (float64, []MonthlyPoint, error) {
	windowStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(incomeMonths - 1), 0)

	pipeline := []bson.M{
		{"$match": bson.M{"createdAt": bson.M{"$gte": windowStart}}},
		{"$group": bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$createdAt"},
				"month": bson.M{"$month": "$createdAt"},
			},
			"income": bson.M{"$sum": "$totalPrice"},
		}},
	}
	cursor, err := db.OrderCollection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		ID struct {
			Year  int `bson:"year"`
			Month int `bson:"month"`
		} `bson:"_id"`
		Income float64 `bson:"income"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, nil, err
	}

	byMonth := make(map[string]float64, len(rows))
	for _, row := range rows {
		key := time.Date(row.ID.Year, time.Month(row.ID.Month), 1, 0, 0, 0, 0, now.Location()).
			Format("2006-01")
		byMonth[key] = row.Income
	}

	// empty months still get a zero bucket so charts line up
	series := make([]MonthlyPoint, 0, incomeMonths)
	for i := 0; i < incomeMonths; i++ {
		key := windowStart.AddDate(0, i, 0).Format("2006-01")
		series = append(series, MonthlyPoint{Month: key, Income: byMonth[key]})
	}

	totalPipeline := []bson.M{
		{"$group": bson.M{"_id": nil, "income": bson.M{"$sum": "$totalPrice"}}},
	}
	totalCursor, err := db.OrderCollection.Aggregate(ctx, totalPipeline)
	if err != nil {
		return 0, nil, err
	}
	defer totalCursor.Close(ctx)

	var totals []struct {
		Income float64 `bson:"income"`
	}
	if err := totalCursor.All(ctx, &totals); err != nil {
		return 0, nil, err
	}
	var total float64
	if len(totals) > 0 {
		total = totals[0].Income
	}

	return total, series, nil
}

func recentActivity(ctx context.Context) ([]Activity, error) {
	recent := options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(5)

	orderCursor, err := db.OrderCollection.Find(ctx, bson.M{}, recent)
	if err != nil {
		return nil, err
	}
	defer orderCursor.Close(ctx)

	var orderList []models.Order
	if err := orderCursor.All(ctx, &orderList); err != nil {
		return nil, err
	}

	userCursor, err := db.UserCollection.Find(ctx, bson.M{}, recent)
	if err != nil {
		return nil, err
	}
	defer userCursor.Close(ctx)

	var userList []models.User
	if err := userCursor.All(ctx, &userList); err != nil {
		return nil, err
	}

	feed := make([]Activity, 0, len(orderList)+len(userList))
	for _, o := range orderList {
		feed = append(feed, Activity{
			Type:      "order",
			RefID:     o.OrderID,
			Label:     o.Customer.FullName,
			Timestamp: o.CreatedAt,
		})
	}
	for _, u := range userList {
		feed = append(feed, Activity{
			Type:      "user",
			RefID:     u.UserID,
			Label:     u.FullName,
			Timestamp: u.CreatedAt,
		})
	}
	return MergeActivity(feed), nil
}

// MergeActivity orders a feed newest first, breaking timestamp ties by
// insertion id so repeat calls produce the same sequence.
func MergeActivity(feed []Activity) []Activity {
	sort.SliceStable(feed, func(i, j int) bool {
		if !feed[i].Timestamp.Equal(feed[j].Timestamp) {
			return feed[i].Timestamp.After(feed[j].Timestamp)
		}
		return feed[i].RefID > feed[j].RefID
	})
	return feed
}
