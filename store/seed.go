package store

import "github.com/spetersoncode/lumina"

// Seed returns the artworks every session starts with.
func Seed() []lumina.Artwork {
	return []lumina.Artwork{
		{ID: "1", URL: "https://picsum.photos/id/1015/800/1000", Title: "River Between Ridges", Artist: "Aurelia Voss", Year: "2019", Description: "A glacial river cutting through a quiet valley."},
		{ID: "2", URL: "https://picsum.photos/id/1025/800/1000", Title: "The Patient Guest", Artist: "Tomas Lindqvist", Year: "2021", Description: "A portrait study in warmth and stillness."},
		{ID: "3", URL: "https://picsum.photos/id/1039/800/1000", Title: "Falling Water", Artist: "Mira Okonkwo", Year: "2018"},
		{ID: "4", URL: "https://picsum.photos/id/1043/800/1000", Title: "Cathedral of Pines", Artist: "Henrik Aalto", Year: "2020", Description: "Light filtering through an old-growth canopy."},
		{ID: "5", URL: "https://picsum.photos/id/1067/800/1000", Title: "City at Rest", Artist: "Lena Marchetti", Year: "2022"},
		{ID: "6", URL: "https://picsum.photos/id/1084/800/1000", Title: "Walrus Shore", Artist: "Iwan Petrov", Year: "2017", Description: "Cold colour and heavy forms along the tideline."},
	}
}
