package db

import (
	"fmt"

	"gorm.io/gorm"

	"vehicle-repair-service/internal/model"
)

// Models lists every table owned by the service in dependency order.
var Models = []interface{}{
	&model.Customer{},
	&model.VehicleBrand{},
	&model.VehicleModel{},
	&model.FuelType{},
	&model.Product{},
	&model.VehiclePartInfo{},
	&model.RegisteredVehicle{},
	&model.ServiceHistory{},
	&model.FleetOdometerLog{},
	&model.AppointmentDay{},
	&model.AppointmentSlot{},
	&model.ChecklistTemplate{},
	&model.ChecklistTemplateItem{},
	&model.InspectionTemplate{},
	&model.InspectionTemplateItem{},
	&model.Booking{},
	&model.BookingItem{},
	&model.InspectionJobCard{},
	&model.InspectionPartLine{},
	&model.InspectionConditionLine{},
	&model.InspectionServiceLine{},
	&model.RepairJobCard{},
	&model.ServiceTeam{},
	&model.ServiceTeamMember{},
	&model.ProjectTask{},
	&model.ProjectTaskAssignee{},
	&model.ServiceTeamLine{},
	&model.ServiceTeamLineMember{},
	&model.SparePartLine{},
	&model.ChecklistLine{},
	&model.SaleOrder{},
	&model.SaleOrderLine{},
	&model.StageLog{},
	&model.NumberSequence{},
}

// indexStatements run on every dialect after AutoMigrate.
var indexStatements = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_booking_active_slot
		ON bookings (booking_date, slot_id)
		WHERE slot_id IS NOT NULL AND stage NOT IN ('draft', 'cancel');`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uniq_registered_vehicle_registration
		ON registered_vehicles (vehicle_registration_no)
		WHERE vehicle_registration_no <> '';`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_customer ON bookings (customer_id, booking_source);`,
	`CREATE INDEX IF NOT EXISTS idx_inspection_job_cards_customer ON inspection_job_cards (customer_id);`,
	`CREATE INDEX IF NOT EXISTS idx_repair_job_cards_customer ON repair_job_cards (customer_id);`,
}

var postgresStatements = []string{
	`CREATE OR REPLACE FUNCTION set_updated_at() RETURNS TRIGGER AS $$
	BEGIN
		NEW.updated_at = NOW();
		RETURN NEW;
	END;
	$$ LANGUAGE plpgsql;`,
	`DO $$
	DECLARE
		t TEXT;
	BEGIN
		FOREACH t IN ARRAY ARRAY['bookings', 'inspection_job_cards', 'repair_job_cards', 'sale_orders', 'project_tasks'] LOOP
			IF NOT EXISTS (SELECT 1 FROM pg_trigger WHERE tgname = 'trg_' || t || '_updated_at') THEN
				EXECUTE format('CREATE TRIGGER %I BEFORE UPDATE ON %I FOR EACH ROW EXECUTE FUNCTION set_updated_at()', 'trg_' || t || '_updated_at', t);
			END IF;
		END LOOP;
	END
	$$;`,
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	statements := indexStatements
	if db.Dialector.Name() == "postgres" {
		statements = append(append([]string{}, indexStatements...), postgresStatements...)
	}

	for i, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
