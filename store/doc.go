/*
Package store persists validated proxies as text, one proxy per line with
server and origin separated by a tab.
*/
package store
