package testhelpers

import (
	"github.com/shuttle-booking/internal/domain/repository"
	"github.com/shuttle-booking/internal/repository/postgres"
)

// NewDBForTest оборачивает sqlmock соединение в postgres.DB
func (tdb *TestDB) NewDBForTest() *postgres.DB {
	return postgres.NewDBForTest(tdb.DB, tdb.Logger)
}

func (tdb *TestDB) BookingRepository() repository.BookingRepository {
	return postgres.NewBookingRepository(tdb.NewDBForTest(), tdb.Logger)
}

func (tdb *TestDB) UserRepository() repository.UserRepository {
	return postgres.NewUserRepository(tdb.NewDBForTest(), tdb.Logger)
}

func (tdb *TestDB) RouteDetailsRepository() repository.RouteDetailsRepository {
	return postgres.NewRouteDetailsRepository(tdb.NewDBForTest(), tdb.Logger)
}

func (tdb *TestDB) NewsRepository() repository.NewsRepository {
	return postgres.NewNewsRepository(tdb.NewDBForTest(), tdb.Logger)
}
