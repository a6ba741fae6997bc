package util

import (
	"encoding/json"
	"io"
	"io/ioutil"
)

// FullDecode decodes a JSON body into obj and reads the remainder to EOF so
// the connection can be reused. The closer is always closed.
func FullDecode(r io.ReadCloser, obj interface{}) error {
	d := json.NewDecoder(r)
	err := d.Decode(obj)
	// drain the reader completely. ignore the result.
	// the point is to read to EOF.
	ioutil.ReadAll(r)
	r.Close()
	return err
}
