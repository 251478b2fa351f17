package repo

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryStoreBookedSlotIsUnique(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	first := Appointment{PitchID: "barnebau", DateString: "15.06.25", TimeSlot: "20.00", Status: StatusBooked}
	if _, err := m.CreateAppointment(ctx, first); err != nil {
		t.Fatalf("CreateAppointment() error = %v", err)
	}

	if _, err := m.CreateAppointment(ctx, first); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("second CreateAppointment() error = %v, want ErrDuplicate", err)
	}

	other := first
	other.PitchID = "noucamp"
	if _, err := m.CreateAppointment(ctx, other); err != nil {
		t.Fatalf("CreateAppointment() on other pitch error = %v", err)
	}

	cancelled := first
	cancelled.Status = StatusCancelled
	if _, err := m.CreateAppointment(ctx, cancelled); err != nil {
		t.Fatalf("cancelled appointments must not hold the slot, got %v", err)
	}
}

func TestMemoryStoreUpdateAppointment(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	a := Appointment{PitchID: "barnebau", DateString: "15.06.25", TimeSlot: "20.00", Status: StatusBooked, CustomerName: "Ali"}
	id, err := m.CreateAppointment(ctx, a)
	if err != nil {
		t.Fatalf("CreateAppointment() error = %v", err)
	}
	b := a
	b.TimeSlot = "21.00"
	if _, err := m.CreateAppointment(ctx, b); err != nil {
		t.Fatalf("CreateAppointment() error = %v", err)
	}

	name := "Veli"
	if err := m.UpdateAppointment(ctx, id, AppointmentPatch{CustomerName: &name}); err != nil {
		t.Fatalf("UpdateAppointment() error = %v", err)
	}
	got, err := m.GetAppointment(ctx, id)
	if err != nil {
		t.Fatalf("GetAppointment() error = %v", err)
	}
	if got.CustomerName != "Veli" || got.TimeSlot != "20.00" {
		t.Errorf("patched appointment = %+v", got)
	}

	slot := "21.00"
	if err := m.UpdateAppointment(ctx, id, AppointmentPatch{TimeSlot: &slot}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("moving onto a booked slot: error = %v, want ErrDuplicate", err)
	}

	if err := m.UpdateAppointment(ctx, "missing", AppointmentPatch{}); !IsNotFound(err) {
		t.Errorf("UpdateAppointment(missing) error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreSubscriptionsAreCopied(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	days := []int{3, 1}
	id, err := m.CreateSubscription(ctx, Subscription{PitchID: "barnebau", TimeSlot: "18.00", DaysOfWeek: days, Active: true})
	if err != nil {
		t.Fatalf("CreateSubscription() error = %v", err)
	}
	days[0] = 6

	got, err := m.GetSubscription(ctx, id)
	if err != nil {
		t.Fatalf("GetSubscription() error = %v", err)
	}
	if len(got.DaysOfWeek) != 2 || got.DaysOfWeek[0] != 1 || got.DaysOfWeek[1] != 3 {
		t.Errorf("DaysOfWeek = %v, want [1 3]", got.DaysOfWeek)
	}

	if err := m.DeleteSubscription(ctx, id); err != nil {
		t.Fatalf("DeleteSubscription() error = %v", err)
	}
	if _, err := m.GetSubscription(ctx, id); !IsNotFound(err) {
		t.Errorf("GetSubscription after delete error = %v", err)
	}
}
