package main

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hotelpms/internal/domain"
	"hotelpms/internal/modules/auth"
	"hotelpms/internal/pkg/jwt"
)

type seedResult struct {
	Rooms     int
	MenuItems int
}

var demoRooms = []domain.Room{
	{RoomNumber: "101", RoomType: "Standard", PricePerNight: decimal.NewFromInt(1500), Capacity: 2},
	{RoomNumber: "102", RoomType: "Standard", PricePerNight: decimal.NewFromInt(1500), Capacity: 2},
	{RoomNumber: "201", RoomType: "Deluxe", PricePerNight: decimal.NewFromInt(2500), Capacity: 3},
	{RoomNumber: "202", RoomType: "Deluxe", PricePerNight: decimal.NewFromInt(2500), Capacity: 3},
	{RoomNumber: "301", RoomType: "Suite", PricePerNight: decimal.NewFromInt(4500), Capacity: 4},
}

var demoMenu = []domain.MenuItem{
	{Name: "Masala Dosa", Category: "Breakfast", Price: decimal.NewFromInt(120)},
	{Name: "Idli Vada", Category: "Breakfast", Price: decimal.NewFromInt(90)},
	{Name: "Veg Thali", Category: "Meals", Price: decimal.NewFromInt(250)},
	{Name: "Paneer Butter Masala", Category: "Meals", Price: decimal.NewFromInt(280)},
	{Name: "Masala Tea", Category: "Beverages", Price: decimal.NewFromInt(30)},
	{Name: "Filter Coffee", Category: "Beverages", Price: decimal.NewFromInt(40)},
}

// seed inserts demo rooms and menu items into empty tables and ensures an
// admin account. Running it twice changes nothing but the admin password.
func seed(ctx context.Context, db *gorm.DB, log *logrus.Logger, adminEmail, adminPassword string) (seedResult, error) {
	var res seedResult
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&domain.Room{}).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			rooms := make([]domain.Room, len(demoRooms))
			copy(rooms, demoRooms)
			for i := range rooms {
				rooms[i].Status = domain.RoomAvailable
			}
			if err := tx.Create(&rooms).Error; err != nil {
				return err
			}
			res.Rooms = len(rooms)
		}

		if err := tx.Model(&domain.MenuItem{}).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			menu := make([]domain.MenuItem, len(demoMenu))
			copy(menu, demoMenu)
			if err := tx.Create(&menu).Error; err != nil {
				return err
			}
			res.MenuItems = len(menu)
		}
		return nil
	})
	if err != nil {
		return res, err
	}

	svc := auth.NewService(db, jwt.New("seed", 0), log)
	if _, _, err := svc.EnsureAdmin(ctx, "Administrator", adminEmail, adminPassword); err != nil {
		return res, err
	}
	log.WithFields(logrus.Fields{"rooms": res.Rooms, "menu_items": res.MenuItems}).Info("seed complete")
	return res, nil
}
