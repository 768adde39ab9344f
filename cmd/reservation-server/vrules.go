package main

import "github.com/deskhive/deskhive/internal/validator"

// Validation rules

func validateCredentials(v *validator.Validator, email, pass string) {
	v.CheckField(validator.NotBlank(email), "email", "cannot be blank")
	v.CheckField(validator.IsEmail(email), "email", "must be a valid email address")
	v.CheckField(validator.NotBlank(pass), "password", "cannot be blank")
}

func validateReservationFields(v *validator.Validator, venue, date, startTime, endTime string) {
	v.CheckField(validator.NotBlank(venue), "venue", "cannot be blank")
	v.CheckField(validator.NotBlank(date), "date", "cannot be blank")
	v.CheckField(validator.NotBlank(startTime), "startTime", "cannot be blank")
	v.CheckField(validator.NotBlank(endTime), "endTime", "cannot be blank")
}
