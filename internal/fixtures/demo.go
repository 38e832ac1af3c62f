// Package fixtures seeds the in-memory store with the demo organisation used
// for local runs: two branch offices, their supervisors and field workers,
// and a handful of customers.
package fixtures

import (
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/customer"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/office"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/fieldforce-backend-go/internal/repository/memory"
)

const (
	OfficeLimpungID = "office-limpung"
	OfficeBandarID  = "office-bandar"
)

func strPtr(s string) *string { return &s }

// DemoOffices are the branch offices, each with a 500 m geofence.
func DemoOffices() []office.Office {
	return []office.Office{
		{ID: OfficeLimpungID, Name: "Kantor Cabang Limpung", Latitude: -7.0, Longitude: 109.9, Radius: 500},
		{ID: OfficeBandarID, Name: "Kantor Cabang Bandar", Latitude: -7.02, Longitude: 109.8, Radius: 500},
	}
}

// DemoUsers lists one admin plus a supervisor and two workers per office.
func DemoUsers() []user.User {
	return []user.User{
		{ID: "user-admin", Name: "Admin HR", Email: "admin@company.com", Role: user.RoleAdmin, OfficeID: strPtr(OfficeLimpungID)},
		{ID: "user-spv-limpung", Name: "SPV Limpung", Email: "spv.limpung@company.com", Role: user.RoleSupervisor, OfficeID: strPtr(OfficeLimpungID)},
		{ID: "user-spv-bandar", Name: "SPV Bandar", Email: "spv.bandar@company.com", Role: user.RoleSupervisor, OfficeID: strPtr(OfficeBandarID)},
		{ID: "user-limpung-1", Name: "Karyawan Limpung 1", Email: "karyawan.limpung1@company.com", Role: user.RoleKaryawan, OfficeID: strPtr(OfficeLimpungID)},
		{ID: "user-limpung-2", Name: "Karyawan Limpung 2", Email: "karyawan.limpung2@company.com", Role: user.RoleKaryawan, OfficeID: strPtr(OfficeLimpungID)},
		{ID: "user-bandar-1", Name: "Karyawan Bandar 1", Email: "karyawan.bandar1@company.com", Role: user.RoleKaryawan, OfficeID: strPtr(OfficeBandarID)},
		{ID: "user-bandar-2", Name: "Karyawan Bandar 2", Email: "karyawan.bandar2@company.com", Role: user.RoleKaryawan, OfficeID: strPtr(OfficeBandarID)},
	}
}

// DemoCustomers are verified customers with known coordinates.
func DemoCustomers() []customer.Customer {
	return []customer.Customer{
		{ID: "cust-1", Name: "PT Maju Mundur", Address: "Jl. Medan Merdeka Barat, Jakarta", Latitude: -6.175392, Longitude: 106.827153},
		{ID: "cust-2", Name: "Toko Abadi Jaya", Address: "Jl. Jendral Sudirman No. 10, Jakarta", Latitude: -6.208763, Longitude: 106.845599},
		{ID: "cust-3", Name: "CV Sentosa", Address: "Jl. MH Thamrin No. 5, Jakarta", Latitude: -6.192455, Longitude: 106.822987},
		{ID: "cust-4", Name: "Warung Bu Susi", Address: "Jl. Gatot Subroto No. 88", Latitude: -6.229728, Longitude: 106.816430},
		{ID: "cust-5", Name: "UD Sumber Rejeki", Address: "Jl. Pasar Minggu Raya", Latitude: -6.284100, Longitude: 106.844414},
		{ID: "cust-6", Name: "Koperasi Warga", Address: "Jl. Raya Bogor KM 22", Latitude: -6.321655, Longitude: 106.864312},
	}
}

// SeedDemo loads the demo organisation into store with default schedules.
func SeedDemo(store *memory.Store) {
	for _, o := range DemoOffices() {
		store.SeedOffice(o, office.DefaultSettings())
	}
	for _, u := range DemoUsers() {
		store.SeedUser(u)
	}
	for _, c := range DemoCustomers() {
		store.SeedCustomer(c)
	}
}
