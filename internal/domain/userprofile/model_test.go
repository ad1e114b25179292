package userprofile

import "testing"

func TestDisplayName(t *testing.T) {
	cases := []struct {
		p    Profile
		want string
	}{
		{Profile{UserID: "u1", FirstName: "Virat", LastName: "Kohli", Email: "vk@example.com"}, "Virat Kohli"},
		{Profile{UserID: "u2", FirstName: "Rohit", Email: "rs@example.com"}, "rs@example.com"},
		{Profile{UserID: "u3"}, "u3"},
	}
	for _, tc := range cases {
		if got := tc.p.DisplayName(); got != tc.want {
			t.Fatalf("DisplayName(%+v) = %q, want %q", tc.p, got, tc.want)
		}
	}
}
