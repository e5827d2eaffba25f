package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name        string    `json:"name"`
	Email       string    `json:"email" gorm:"uniqueIndex"`
	PhoneNumber string    `json:"phoneNumber"`
	Password    string    `json:"password"`
	Listings    []Listing `json:"listings,omitempty" gorm:"foreignKey:AgentID;references:ID"`
	Role        string    `json:"role" gorm:"type:varchar(20);default:user;index"` // user, seller, agent, admin
}

// Never serialize the password hash.
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		Password string `json:"password,omitempty"`
		*Alias
	}{
		Alias: (*Alias)(u),
	}
	aux.Password = ""
	return json.Marshal(aux)
}
