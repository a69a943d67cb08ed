package model

import "time"

// WishlistItem is an item the community asks a pantry to stock.
type WishlistItem struct {
	ID        string    `json:"id" bson:"_id"`
	PantryID  string    `json:"pantryId" bson:"pantry_id"`
	Name      string    `json:"name" bson:"name"`
	Quantity  int       `json:"quantity" bson:"quantity"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// DonationNote is an entry of a pantry's donation log.
type DonationNote struct {
	ID            string    `json:"id" bson:"_id"`
	PantryID      string    `json:"pantryId" bson:"pantry_id"`
	Note          string    `json:"note,omitempty" bson:"note,omitempty"`
	DonationSize  string    `json:"donationSize" bson:"donation_size"`
	DonationItems []string  `json:"donationItems,omitempty" bson:"donation_items,omitempty"`
	PhotoURLs     []string  `json:"photoUrls,omitempty" bson:"photo_urls,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"created_at"`
}
