package routes

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestTable_ResolveAndReverse(t *testing.T) {
	tbl := NewTable()
	tbl.Add(http.MethodGet, "/customer/bookings/:booking_id/cancel/", "customer:cancel_booking")
	tbl.Add(http.MethodPost, "/customer/bookings/:booking_id/cancel/", "customer:cancel_booking")

	name, ok := tbl.Resolve(http.MethodPost, "/customer/bookings/:booking_id/cancel/")
	if !ok || name != "customer:cancel_booking" {
		t.Fatalf("unexpected resolution: %q %v", name, ok)
	}
	if _, ok := tbl.Resolve(http.MethodDelete, "/customer/bookings/:booking_id/cancel/"); ok {
		t.Fatal("expected an unregistered method to be unresolvable")
	}
	if _, ok := tbl.Resolve(http.MethodGet, ""); ok {
		t.Fatal("expected an empty path to be unresolvable")
	}

	if got := tbl.Reverse("customer:cancel_booking", "b42"); got != "/customer/bookings/b42/cancel/" {
		t.Fatalf("unexpected reverse: %s", got)
	}
	if got := tbl.Reverse("nope:missing"); got != "/" {
		t.Fatalf("expected unknown names to reverse to /, got %s", got)
	}
}

func TestTable_LoadKeepsUnnamedRoutesAnonymous(t *testing.T) {
	e := echo.New()
	h := func(c echo.Context) error { return nil }
	e.GET("/health", h)
	e.GET("/customer/dashboard/", h).Name = "customer:dashboard"

	tbl := NewTable()
	tbl.Load(e.Routes())

	if name, ok := tbl.Resolve(http.MethodGet, "/health"); !ok || name != "" {
		t.Fatalf("expected the health route known but unnamed, got %q %v", name, ok)
	}
	if _, ok := tbl.Resolve(http.MethodGet, "/nowhere"); ok {
		t.Fatal("expected an unregistered path to be unresolvable")
	}
	if name, ok := tbl.Resolve(http.MethodGet, "/customer/dashboard/"); !ok || name != "customer:dashboard" {
		t.Fatalf("unexpected resolution: %q %v", name, ok)
	}
}

func TestIsRouteName(t *testing.T) {
	cases := map[string]bool{
		"core:home":          true,
		"user_admin:users":   true,
		"home":               false,
		":home":              false,
		"core:":              false,
		"a:b:c":              false,
		"main.(*H).Get-fm":   false,
		"github.com/x/y.Get": false,
	}
	for in, want := range cases {
		if got := IsRouteName(in); got != want {
			t.Errorf("IsRouteName(%q) = %v, want %v", in, got, want)
		}
	}
}
