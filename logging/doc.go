/*
Package logging sets up proxyhunter's structured logging, based on
[zerolog]. Library packages never log on their own account unless given a
logger; they default to [zerolog.Nop].

[zerolog]: https://github.com/rs/zerolog
*/
package logging
