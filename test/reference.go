// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package test

import (
	"encoding/json"
	"net/http"
)

// Liveness returns a reference handler that reports the specified exit IP
// address in the same way as httpbin.org/ip does.
func Liveness(exitIP string) http.Handler {
	return JSON(http.StatusOK, map[string]string{"origin": exitIP})
}

// Geolocation returns a reference handler that reports success together with
// the specified country. An empty country is left out of the response.
func Geolocation(country string) http.Handler {
	resp := map[string]string{"status": "success"}
	if country != "" {
		resp["country"] = country
	}
	return JSON(http.StatusOK, resp)
}

// GeolocationFail returns a reference handler that reports failure, as a
// geolocation service does when it cannot locate the client.
func GeolocationFail() http.Handler {
	return JSON(http.StatusOK, map[string]string{
		"status":  "fail",
		"message": "reserved range",
	})
}

// JSON returns a handler always answering with the specified status code and
// the JSON encoding of v.
func JSON(status int, v any) http.Handler {
	body, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return Raw(status, string(body))
}

// Raw returns a handler always answering with the specified status code and
// body text.
func Raw(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}
