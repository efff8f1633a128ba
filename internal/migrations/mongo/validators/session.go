package validators

import (
	"go.mongodb.org/mongo-driver/bson"

	"courtbook/pkg/model"
)

var (
	datePattern  = `^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12]\d|3[01])$`
	clockPattern = `^([01]\d|2[0-3]):[0-5]\d$`
	integer      = []string{"int", "long"}
)

var slotSchema = bson.M{
	"bsonType": "object",
	"required": []string{"id", "player_name", "start_time", "end_time"},
	"properties": bson.M{
		"id":          bson.M{"bsonType": "long"},
		"player_name": bson.M{"bsonType": "string", "minLength": 1},
		"email":       bson.M{"bsonType": "string"},
		"phone":       bson.M{"bsonType": "string"},
		"start_time":  bson.M{"bsonType": "string", "pattern": clockPattern},
		"end_time":    bson.M{"bsonType": "string", "pattern": clockPattern},
	},
}

var paymentInfoSchema = bson.M{
	"bsonType": "object",
	"required": []string{"account_name", "account_number", "bank"},
	"properties": bson.M{
		"account_name":   bson.M{"bsonType": "string", "minLength": 1},
		"account_number": bson.M{"bsonType": "string", "minLength": 1},
		"bank": bson.M{
			"bsonType": "string",
			"enum":     []string{model.BankCBA, model.BankWestpac, model.BankCustom},
		},
		"custom_bank": bson.M{"bsonType": "string"},
	},
}

// SessionValidator mirrors model.Session. Slot count against max_slots is
// enforced by the application, not the schema.
var SessionValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType": "object",
		"required": []string{
			"date",
			"start_time",
			"end_time",
			"courts",
			"location",
			"max_slots",
			"payment_info",
			"slots",
			"is_paid",
			"created_at",
		},
		"additionalProperties": true,

		"properties": bson.M{
			"_id":        bson.M{"bsonType": "objectId"},
			"date":       bson.M{"bsonType": "string", "pattern": datePattern},
			"start_time": bson.M{"bsonType": "string", "pattern": clockPattern},
			"end_time":   bson.M{"bsonType": "string", "pattern": clockPattern},
			"courts":     bson.M{"bsonType": integer, "minimum": 1},
			"location": bson.M{
				"bsonType": "string",
				"enum":     model.Venues,
			},
			"max_slots":    bson.M{"bsonType": integer, "minimum": 1},
			"payment_info": paymentInfoSchema,
			"slots": bson.M{
				"bsonType": "array",
				"items":    slotSchema,
			},
			"total_amount": bson.M{"bsonType": "double", "minimum": 0},
			"is_paid":      bson.M{"bsonType": "bool"},
			"individual_costs": bson.M{
				"bsonType": "object",
				"additionalProperties": bson.M{
					"bsonType": "double",
				},
			},
			"cost_per_person": bson.M{"bsonType": "double"},
			"split_mode": bson.M{
				"bsonType": "string",
				"enum":     []string{string(model.SplitEven), string(model.SplitManual)},
			},
			"created_at":   bson.M{"bsonType": "date"},
			"finalized_at": bson.M{"bsonType": "date"},
		},
	},
}
