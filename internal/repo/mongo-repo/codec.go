package mongorepo

import (
	"fmt"
	"reflect"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
	"go.mongodb.org/mongo-driver/bson/bsonrw"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/GlebRadaev/minerledger/internal/domain"
)

var (
	tDecimal = reflect.TypeOf(decimal.Decimal{})
	tDate    = reflect.TypeOf(domain.Date{})
)

// NewRegistry returns the default registry extended with codecs for money
// amounts and calendar dates. Amounts are stored as Decimal128; legacy
// documents holding doubles, strings or integers still decode.
func NewRegistry() *bsoncodec.Registry {
	reg := bson.NewRegistry()
	reg.RegisterTypeEncoder(tDecimal, bsoncodec.ValueEncoderFunc(encodeDecimal))
	reg.RegisterTypeDecoder(tDecimal, bsoncodec.ValueDecoderFunc(decodeDecimal))
	reg.RegisterTypeEncoder(tDate, bsoncodec.ValueEncoderFunc(encodeDate))
	reg.RegisterTypeDecoder(tDate, bsoncodec.ValueDecoderFunc(decodeDate))
	return reg
}

func encodeDecimal(_ bsoncodec.EncodeContext, vw bsonrw.ValueWriter, val reflect.Value) error {
	if !val.IsValid() || val.Type() != tDecimal {
		return bsoncodec.ValueEncoderError{Name: "DecimalEncodeValue", Types: []reflect.Type{tDecimal}, Received: val}
	}
	d, err := primitive.ParseDecimal128(val.Interface().(decimal.Decimal).String())
	if err != nil {
		return err
	}
	return vw.WriteDecimal128(d)
}

func decodeDecimal(_ bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	if !val.CanSet() || val.Type() != tDecimal {
		return bsoncodec.ValueDecoderError{Name: "DecimalDecodeValue", Types: []reflect.Type{tDecimal}, Received: val}
	}

	var (
		d   decimal.Decimal
		err error
	)
	switch vr.Type() {
	case bsontype.Decimal128:
		var v primitive.Decimal128
		if v, err = vr.ReadDecimal128(); err == nil {
			d, err = decimal.NewFromString(v.String())
		}
	case bsontype.Double:
		var f float64
		if f, err = vr.ReadDouble(); err == nil {
			d = decimal.NewFromFloat(f)
		}
	case bsontype.String:
		var s string
		if s, err = vr.ReadString(); err == nil {
			d, err = decimal.NewFromString(s)
		}
	case bsontype.Int32:
		var i int32
		if i, err = vr.ReadInt32(); err == nil {
			d = decimal.NewFromInt32(i)
		}
	case bsontype.Int64:
		var i int64
		if i, err = vr.ReadInt64(); err == nil {
			d = decimal.NewFromInt(i)
		}
	case bsontype.Null:
		err = vr.ReadNull()
	default:
		return fmt.Errorf("cannot decode %v into a decimal", vr.Type())
	}
	if err != nil {
		return err
	}

	val.Set(reflect.ValueOf(d))
	return nil
}

func encodeDate(_ bsoncodec.EncodeContext, vw bsonrw.ValueWriter, val reflect.Value) error {
	if !val.IsValid() || val.Type() != tDate {
		return bsoncodec.ValueEncoderError{Name: "DateEncodeValue", Types: []reflect.Type{tDate}, Received: val}
	}
	date := val.Interface().(domain.Date)
	if date.IsZero() {
		return vw.WriteNull()
	}
	return vw.WriteString(date.String())
}

func decodeDate(_ bsoncodec.DecodeContext, vr bsonrw.ValueReader, val reflect.Value) error {
	if !val.CanSet() || val.Type() != tDate {
		return bsoncodec.ValueDecoderError{Name: "DateDecodeValue", Types: []reflect.Type{tDate}, Received: val}
	}

	var date domain.Date
	switch vr.Type() {
	case bsontype.String:
		s, err := vr.ReadString()
		if err != nil {
			return err
		}
		if date, err = domain.ParseDate(s); err != nil {
			return err
		}
	case bsontype.DateTime:
		ms, err := vr.ReadDateTime()
		if err != nil {
			return err
		}
		date = domain.DateOf(primitive.DateTime(ms).Time().UTC())
	case bsontype.Null:
		if err := vr.ReadNull(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("cannot decode %v into a date", vr.Type())
	}

	val.Set(reflect.ValueOf(date))
	return nil
}
