// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package logging

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("logging", func() {

	It("suppresses debug messages unless verbose", func() {
		var buff bytes.Buffer
		log := New(&buff, false)
		log.Debug().Msg("hidden")
		log.Info().Msg("shown")
		Expect(buff.String()).NotTo(ContainSubstring("hidden"))
		Expect(buff.String()).To(ContainSubstring("shown"))
	})

	It("lets debug messages through when verbose", func() {
		var buff bytes.Buffer
		log := New(&buff, true)
		log.Debug().Msg("diagnostics")
		Expect(buff.String()).To(ContainSubstring("diagnostics"))
	})

	It("tags component loggers", func() {
		var buff bytes.Buffer
		log := WithComponent(New(&buff, false), "verifier")
		log.Info().Msg("hello")
		Expect(buff.String()).To(ContainSubstring("verifier"))
	})

})
