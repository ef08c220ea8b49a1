package seed

import (
	bookingModel "travel/internal/domains/booking/model"
	listingModel "travel/internal/domains/listing/model"
	reviewModel "travel/internal/domains/review/model"
	userModel "travel/internal/domains/user/model"
)

var cachePrefixes = []string{
	userModel.CacheGet, userModel.CacheGetAll, userModel.CacheCount,
	listingModel.CacheGet, listingModel.CacheGetAll, listingModel.CacheCount,
	bookingModel.CacheGet, bookingModel.CacheGetAll, bookingModel.CacheCount,
	reviewModel.CacheGet, reviewModel.CacheGetAll, reviewModel.CacheCount,
}

var (
	firstNames = []string{
		"John", "Jane", "Michael", "Sarah", "David", "Emily", "Robert", "Lisa",
		"James", "Maria", "William", "Jennifer", "Richard", "Linda", "Charles",
	}
	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
		"Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez",
	}
)

var (
	propertyTypes = []string{
		listingModel.PropertyTypeHotel,
		listingModel.PropertyTypeApartment,
		listingModel.PropertyTypeHouse,
		listingModel.PropertyTypeVilla,
		listingModel.PropertyTypeResort,
		listingModel.PropertyTypeHostel,
	}
	locations = []string{
		"Paris, France", "Tokyo, Japan", "New York, USA", "London, UK",
		"Sydney, Australia", "Rome, Italy", "Barcelona, Spain", "Amsterdam, Netherlands",
		"Bangkok, Thailand", "Dubai, UAE", "Singapore", "Los Angeles, USA",
		"Berlin, Germany", "Prague, Czech Republic", "Istanbul, Turkey",
	}
	listingNames = []string{
		"Luxury Downtown Apartment", "Cozy Beachfront Villa", "Modern City Loft",
		"Historic Boutique Hotel", "Spacious Family House", "Charming Garden Cottage",
		"Penthouse with City Views", "Rustic Mountain Cabin", "Elegant Studio",
		"Seaside Resort Suite", "Urban Design Hotel", "Traditional Townhouse",
		"Contemporary Flat", "Romantic Getaway", "Business Travel Suite",
	}
	amenities = []string{
		"WiFi, Air Conditioning, Kitchen",
		"Pool, Gym, Spa, Concierge",
		"Parking, Balcony, Washing Machine",
		"Ocean View, Private Beach, Restaurant",
		"City Center, Metro Access, Rooftop Terrace",
		"Garden, BBQ, Pet Friendly",
		"Business Center, Meeting Room, Airport Shuttle",
	}
	descriptions = []string{
		"A beautiful and comfortable place to stay with all modern amenities.",
		"Perfect for families and groups looking for a relaxing vacation.",
		"Ideal location for business travelers and tourists alike.",
		"Stunning views and luxury accommodations in the heart of the city.",
		"Cozy and welcoming space with traditional charm and modern comfort.",
		"Experience the best of local culture in this authentic accommodation.",
	}
)

// Mostly confirmed or completed stays.
var (
	bookingStatuses = []string{
		bookingModel.StatusPending,
		bookingModel.StatusConfirmed,
		bookingModel.StatusCompleted,
		bookingModel.StatusCancelled,
	}
	bookingStatusWeights = []int{10, 40, 40, 10}
	specialRequests      = []string{
		"", "", "",
		"Early check-in please",
		"Late check-out if possible",
		"Extra towels needed",
		"Quiet room preferred",
	}
)

// Weights for ratings one to five, mostly positive.
var ratingWeights = []int{5, 5, 15, 35, 40}

var comments = []string{
	"Amazing place! Highly recommended for anyone visiting the area.",
	"Great location and very clean. The host was very responsive.",
	"Perfect for our family vacation. Kids loved it!",
	"Exactly as described. Would definitely book again.",
	"Beautiful apartment with stunning views.",
	"Very comfortable and well-equipped. Great value for money.",
	"The location was perfect for exploring the city.",
	"Host was very welcoming and gave great local recommendations.",
	"Clean, comfortable, and exactly what we needed.",
	"Excellent communication from the host. Smooth check-in process.",
	"Good place but could use some improvements.",
	"Outstanding service and beautiful property.",
	"Convenient location with easy access to public transport.",
	"Cozy and comfortable. Felt like home away from home.",
	"Great amenities and very well maintained.",
	"Peaceful and quiet neighborhood. Perfect for relaxation.",
	"Modern and stylish interior. Very Instagram-worthy!",
	"Host went above and beyond to make our stay comfortable.",
	"Good value for the price. Would recommend to friends.",
	"Nice place overall, minor issues but nothing major.",
}
