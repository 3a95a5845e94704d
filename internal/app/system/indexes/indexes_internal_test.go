package indexes

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestKeySig(t *testing.T) {
	tests := []struct {
		name string
		keys bson.D
		want string
	}{
		{"single", bson.D{{Key: "date", Value: 1}}, "date:1"},
		{"compound", bson.D{{Key: "employee_id", Value: 1}, {Key: "date", Value: 1}}, "employee_id:1, date:1"},
		{"descending", bson.D{{Key: "created_at", Value: -1}}, "created_at:-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := keySig(tt.keys); got != tt.want {
				t.Errorf("keySig() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsDuplicateKeyErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("connection reset"), false},
		{"e11000 text", errors.New("E11000 duplicate key error index"), true},
		{"lowercase text", errors.New("write failed: Duplicate Key violation"), true},
		{"write exception", mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}, true},
		{"command error", mongo.CommandError{Code: 11000}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isDuplicateKeyErr(tt.err); got != tt.want {
				t.Errorf("isDuplicateKeyErr() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUniqueOf(t *testing.T) {
	yes := true
	no := false
	if uniqueOf(nil) {
		t.Error("nil should not be unique")
	}
	if uniqueOf(&no) {
		t.Error("false should not be unique")
	}
	if !uniqueOf(&yes) {
		t.Error("true should be unique")
	}
}
