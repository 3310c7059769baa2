package mongoclient

import (
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncodec"
)

// MakeBsonM turns a struct of optional filters into a selector. Nil pointers
// and zero values are skipped; set pointers are dereferenced.
func MakeBsonM(filter interface{}) (bson.M, error) {
	val := reflect.Indirect(reflect.ValueOf(filter))
	res := bson.M{}
	if val.Kind() != reflect.Struct {
		return res, nil
	}

	for i := 0; i < val.NumField(); i++ {
		sf := val.Type().Field(i)
		if sf.PkgPath != "" {
			continue
		}
		tag, err := bsoncodec.DefaultStructTagParser(sf)
		if err != nil {
			return nil, err
		}
		field := val.Field(i)
		if tag.Skip || field.IsZero() {
			continue
		}
		if field.Kind() == reflect.Ptr {
			field = field.Elem()
		}
		res[tag.Name] = field.Interface()
	}
	return res, nil
}
