package blob

import (
	"encoding/gob"
	"io"
)

// Fetch protocol: one request/response exchange per QUIC stream,
// gob-framed.

type fetchRequest struct {
	RequestID string
	Hash      string
}

type fetchResponse struct {
	Found bool
	Data  []byte
}

func writeFetchRequest(w io.Writer, req *fetchRequest) error {
	return gob.NewEncoder(w).Encode(req)
}

func readFetchRequest(r io.Reader) (*fetchRequest, error) {
	var req fetchRequest
	if err := gob.NewDecoder(r).Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

func writeFetchResponse(w io.Writer, res *fetchResponse) error {
	return gob.NewEncoder(w).Encode(res)
}

func readFetchResponse(r io.Reader) (*fetchResponse, error) {
	var res fetchResponse
	if err := gob.NewDecoder(r).Decode(&res); err != nil {
		return nil, err
	}
	return &res, nil
}
