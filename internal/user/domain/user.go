package domain

import "time"

// User is the full stored record. PasswordDigest never leaves the user
// service; read operations hand out Summary or Profile projections.
type User struct {
	Username       string
	PasswordDigest string
	FirstName      string
	LastName       string
	Phone          string
	JoinedAt       time.Time
	LastLoginAt    time.Time
}

// Summary is the externally safe projection of a user: no digest, no
// account timestamps.
type Summary struct {
	Username  string
	FirstName string
	LastName  string
	Phone     string
}

// Profile adds the account timestamps, still without the digest.
type Profile struct {
	Username    string
	FirstName   string
	LastName    string
	Phone       string
	JoinedAt    time.Time
	LastLoginAt time.Time
}

func (u User) Summary() Summary {
	return Summary{
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
	}
}

func (u User) Profile() Profile {
	return Profile{
		Username:    u.Username,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		JoinedAt:    u.JoinedAt,
		LastLoginAt: u.LastLoginAt,
	}
}
