/*
Package mobynet locates the network namespaces of Docker containers, in order
to probe proxies from the network view of a container.
*/
package mobynet
