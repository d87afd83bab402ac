/*
Package discover finds proxy candidates, either in local text files or by
crawling web search results for proxy list text files.

Candidates are dotted-quad IPv4 addresses with a port, such as
“1.2.3.4:8080”, and may appear anywhere in text, even with whitespace around
the colon. Discovery doesn't de-duplicate candidates.
*/
package discover
